package mailer

// Config параметры SMTP
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}
