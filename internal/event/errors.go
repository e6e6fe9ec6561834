package event

import "errors"

var (
	ErrEmptyStatement   = errors.New("empty statement name")
	ErrEmptySID         = errors.New("empty SID")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
