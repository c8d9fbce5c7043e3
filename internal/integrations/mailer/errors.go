package mailer

import "errors"

var (
	// ErrInvalidRecipient пустой адрес получателя
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")

	// ErrSend ошибка отправки письма
	ErrSend = errors.New("mailer: failed to send message")
)
