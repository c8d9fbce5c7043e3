package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не участник бронирования
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrInvalidTransition возвращается при недопустимой операции для текущего статуса или роли
	ErrInvalidTransition = errors.New("update_booking: invalid transition")

	// ErrStatusConflict возвращается, когда статус изменился с момента, ожидаемого клиентом
	ErrStatusConflict = errors.New("update_booking: status conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
