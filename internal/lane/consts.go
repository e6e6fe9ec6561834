package lane

import (
	"math"
	"time"
)

const (
	defaultBatchSize      = 1
	defaultHighWaterMark  = 1000
	defaultFlushInterval  = 100 * time.Millisecond
	defaultPoolSize       = 4
	defaultPoolQueueSize  = 4096
	defaultDeadLetterSize = 128
	defaultOverflowWait   = 50 * time.Millisecond

	// unboundedCapacity используется, когда емкость линии не задана явно.
	unboundedCapacity = math.MaxInt32

	initialBufferSize = 1024
	overflowLogPeriod = time.Second
)
