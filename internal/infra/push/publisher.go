package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// Publisher публикует снимки бронирований в шину
type Publisher struct {
	pub message.Publisher
}

// NewPublisher создает издателя поверх любой watermill-шины
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// PublishBookingUpdate отправляет конверт {"event":"booking:update","data":snapshot}
func (p *Publisher) PublishBookingUpdate(ctx context.Context, booking *domain.Booking) error {
	payload, err := json.Marshal(models.NewEvent(booking))
	if err != nil {
		return fmt.Errorf("%w: booking %s: %v", ErrMarshalEvent, booking.ID, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("booking_id", booking.ID)
	msg.Metadata.Set("status", string(booking.Status))

	if err := p.pub.Publish(TopicBookingUpdate, msg); err != nil {
		return fmt.Errorf("%w: booking %s: %v", ErrPublish, booking.ID, err)
	}
	return nil
}
