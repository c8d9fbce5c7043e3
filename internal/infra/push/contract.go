package push

// TopicBookingUpdate топик шины для снимков бронирований
const TopicBookingUpdate = "booking:update"

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
