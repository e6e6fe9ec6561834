package partitioner

import "errors"

var (
	ErrInvalidCount = errors.New("invalid count")
)
