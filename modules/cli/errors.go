package cli

import "errors"

var (
	ErrChainInvalid = errors.New("chain failed validation")
	ErrInvalidJSON  = errors.New("data is not valid JSON")
)
