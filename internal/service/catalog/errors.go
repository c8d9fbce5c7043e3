package catalog

import "errors"

var (
	// ErrTechnicianNotFound возвращается, когда мастер не найден
	ErrTechnicianNotFound = errors.New("catalog: technician not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("catalog: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
