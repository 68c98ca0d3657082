package params

import "errors"

// Ошибки параметров.
var (
	// ErrInvalidValue — значение не может быть представлено как Value.
	ErrInvalidValue = errors.New("invalid parameter value")
)
