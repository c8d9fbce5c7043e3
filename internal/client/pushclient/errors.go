package pushclient

import "errors"

var (
	// ErrChannelClosed push-канал закрылся, сессия переподключится сама
	ErrChannelClosed = errors.New("pushclient: channel closed")

	// ErrResync не удалось загрузить текущие бронирования после подключения
	ErrResync = errors.New("pushclient: resync failed")

	// ErrUnauthorized сервер отверг токен
	ErrUnauthorized = errors.New("pushclient: unauthorized")

	// ErrInvalidConfig некорректные параметры сессии
	ErrInvalidConfig = errors.New("pushclient: invalid config")
)
