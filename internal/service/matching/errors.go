package matching

import "errors"

var (
	// ErrLoadCandidates ошибка загрузки мастеров
	ErrLoadCandidates = errors.New("matching: failed to load candidates")
)
