package access

import "errors"

var (
	// ErrAccessDenied пользователь не участник бронирования
	ErrAccessDenied = errors.New("access: access denied")

	// ErrResolveTechnician ошибка получения мастера пользователя
	ErrResolveTechnician = errors.New("access: failed to resolve technician")
)
