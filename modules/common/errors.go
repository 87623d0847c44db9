package common

import "errors"

var ErrInvalidUTF8 = errors.New("payload contains invalid UTF-8")
