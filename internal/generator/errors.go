package generator

import "errors"

var (
	ErrInvalidMode = errors.New("invalid generator mode")
)
