package params

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid config")
)
