package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrTechnicianNotFound возвращается, когда указанный мастер не существует
	// Это ошибка валидации входных данных, а не отсутствие ресурса запроса
	ErrTechnicianNotFound = errors.New("create_booking: technician not found")

	// ErrAccessDenied возвращается, когда бронирование создаёт не сам клиент
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidTransition возвращается, если роль не может создавать бронирования
	ErrInvalidTransition = errors.New("create_booking: invalid transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
