package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// Имя собирается из секции и поля: SMC_DATABASE_PASSWORD, SMC_AUTH_JWT_SECRET, SMC_PUSH_PATH
// Явных тегов envconfig нет: с ними envconfig читает и голое имя (PATH, USER, PORT)
const EnvPrefix = "SMC"

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrEnvOverride ошибка применения переменных окружения
	ErrEnvOverride = errors.New("config: failed to apply environment overrides")

	// ErrInvalidConfig некорректная конфигурация
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Push     PushConfig     `toml:"push"`
	Mail     MailConfig     `toml:"mail"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// AuthConfig настройки проверки токенов
// Выдача токенов выполняется внешним сервисом, здесь только проверка подписи
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" split_words:"true"`
	Issuer    string `toml:"issuer" split_words:"true"`
}

// PushConfig настройки push-канала booking:update
type PushConfig struct {
	Path         string `toml:"path" split_words:"true"`
	SendBuffer   int    `toml:"send_buffer" split_words:"true"`
	WriteTimeout int    `toml:"write_timeout" split_words:"true"`
	PongTimeout  int    `toml:"pong_timeout" split_words:"true"`
	// AllowedOrigins пустой список - разрешены все источники
	AllowedOrigins []string `toml:"allowed_origins" split_words:"true"`
}

// MailConfig настройки отправки писем о бронированиях
type MailConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	Host     string `toml:"host" split_words:"true"`
	Port     int    `toml:"port" split_words:"true"`
	Username string `toml:"username" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	From     string `toml:"from" split_words:"true"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения
// и значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "serviceconnect",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_serviceconnect",
		},
		Push: PushConfig{
			Path:         "/ws",
			SendBuffer:   64,
			WriteTimeout: 10,
			PongTimeout:  60,
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Push.SendBuffer <= 0 {
		return fmt.Errorf("%w: push.send_buffer must be positive", ErrInvalidConfig)
	}
	if c.Push.PongTimeout <= 0 {
		return fmt.Errorf("%w: push.pong_timeout must be positive", ErrInvalidConfig)
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		return fmt.Errorf("%w: mail.host and mail.from are required when mail is enabled", ErrInvalidConfig)
	}
	return nil
}
