package step

import "errors"

// Ошибки реестра шагов.
var (
	// ErrStepNotFound — шаг не найден в реестре.
	ErrStepNotFound = errors.New("step not found")

	// ErrEmptyStepID — попытка зарегистрировать шаг с пустым ID.
	ErrEmptyStepID = errors.New("step has empty ID")

	// ErrNilAction — попытка зарегистрировать шаг без действия.
	ErrNilAction = errors.New("step has nil action")
)
