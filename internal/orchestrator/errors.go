package orchestrator

import (
	"errors"
	"time"
)

// publishTimeout — предел ожидания публикации событий одного прогона.
const publishTimeout = 10 * time.Second

var (
	// ErrRunNotActive — прогон не найден среди активных.
	ErrRunNotActive = errors.New("run is not active")
)
