package create_booking

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID    string  // ID услуги
	CustomerID   string  // ID клиента, должен совпадать с пользователем запроса
	Date         string  // Дата и время визита, ISO 8601
	Location     string  // Адрес
	TechnicianID *string // Мастер (опционально, иначе подбирается автоматически)
}
