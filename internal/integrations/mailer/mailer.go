package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<h2>Booking received</h2>
<p>Your {{.ServiceName}} booking is <b>{{.Status}}</b>.</p>
<ul>
  <li>Date: {{.Date}}</li>
  <li>Location: {{.Location}}</li>
  {{- if .TechnicianName}}
  <li>Technician: {{.TechnicianName}}</li>
  {{- end}}
  <li>Total: {{printf "%.2f" .TotalCost}}</li>
</ul>
<p>Booking ID: {{.ID}}</p>`))

// SMTPMailer отправляет письма о бронированиях через SMTP
type SMTPMailer struct {
	sender Sender
	from   string
	logger Logger
}

// NewSMTPMailer создает отправителя поверх gomail.Dialer
func NewSMTPMailer(cfg Config, logger Logger) *SMTPMailer {
	return NewWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, logger)
}

// NewWithSender создает отправителя с произвольным транспортом
func NewWithSender(sender Sender, from string, logger Logger) *SMTPMailer {
	return &SMTPMailer{sender: sender, from: from, logger: logger}
}

// SendBookingConfirmation письмо клиенту о созданном бронировании
func (m *SMTPMailer) SendBookingConfirmation(ctx context.Context, to string, booking *models.Booking) error {
	if strings.TrimSpace(to) == "" {
		return ErrInvalidRecipient
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, confirmationView(booking)); err != nil {
		return fmt.Errorf("%w: render: %v", ErrSend, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Booking %s: %s", booking.ServiceName, booking.Status))
	msg.SetBody("text/html", body.String())

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: booking %s to %s: %v", ErrSend, booking.ID, to, err)
	}

	m.logger.Info("mailer: confirmation for booking %s sent to %s", booking.ID, to)
	return nil
}

type view struct {
	ID             string
	ServiceName    string
	Status         string
	Date           string
	Location       string
	TechnicianName string
	TotalCost      float64
}

func confirmationView(b *models.Booking) view {
	v := view{
		ID:          b.ID,
		ServiceName: b.ServiceName,
		Status:      b.Status,
		Date:        b.Date,
		Location:    b.Location,
		TotalCost:   b.TotalCost,
	}
	if b.TechnicianName != nil {
		v.TechnicianName = *b.TechnicianName
	}
	return v
}

// LogMailer пишет письма в лог вместо отправки, используется при mail.enabled = false
type LogMailer struct {
	logger Logger
}

// NewLogMailer создает отправителя-заглушку
func NewLogMailer(logger Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendBookingConfirmation(_ context.Context, to string, booking *models.Booking) error {
	if strings.TrimSpace(to) == "" {
		return ErrInvalidRecipient
	}
	m.logger.Info("mailer: (disabled) confirmation for booking %s to %s", booking.ID, to)
	return nil
}
