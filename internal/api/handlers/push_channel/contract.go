package push_channel

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// TokenVerifier проверка access-токена при подключении
type TokenVerifier interface {
	Parse(token string) (domain.Identity, error)
}

// TechnicianResolver ID мастера для пользователя-мастера
type TechnicianResolver interface {
	TechnicianID(ctx context.Context, userID string) (string, error)
}

// Hub регистрирует подключения
type Hub interface {
	Attach(conn *websocket.Conn, identity domain.Identity, technicianID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
