package config

import "errors"

var (
	ErrInvalidBatchSize   = errors.New("batch_size must be positive")
	ErrInvalidWorkerCount = errors.New("worker_count must be positive")
	ErrInvalidCapacity    = errors.New("queue_capacity must not be negative")
	ErrInvalidPort        = errors.New("invalid metrics port")
	ErrInvalidRate        = errors.New("invalid_rate must be within [0, 1]")
	ErrInvalidSender      = errors.New("invalid sender settings")
)
