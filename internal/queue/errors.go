package queue

import "errors"

var (
	ErrClosed             = errors.New("queue closed")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)
