package push

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewBus in-process шина: один процесс держит и издателя, и хаб
func NewBus(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
}

// NewRouter подписывает хаб на топик booking:update
func NewRouter(sub message.Subscriber, hub *Hub, logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("push: create router: %w", err)
	}

	router.AddNoPublisherHandler(
		"push.booking_update",
		TopicBookingUpdate,
		sub,
		hub.HandleMessage,
	)

	return router, nil
}
