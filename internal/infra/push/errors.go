package push

import "errors"

var (
	// ErrMarshalEvent ошибка сериализации события
	ErrMarshalEvent = errors.New("push: failed to marshal event")

	// ErrPublish ошибка публикации в шину
	ErrPublish = errors.New("push: failed to publish event")

	// ErrHubClosed хаб остановлен
	ErrHubClosed = errors.New("push: hub closed")
)
