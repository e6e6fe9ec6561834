package lane

import (
	"time"

	"events-dispatcher/internal/dispatcher"
	"events-dispatcher/internal/meter"
)

// Options содержит общие для всех линий фабрики настройки.
// Размер батча и емкость задаются при создании конкретной линии.
type Options struct {
	// HighWaterMark — заполненность буфера, при превышении которой
	// выгрузка запускается немедленно.
	HighWaterMark int
	// DisableSizeTrigger отключает выгрузку по достижении размера батча,
	// тогда из AddMessage срабатывает только HighWaterMark.
	DisableSizeTrigger bool
	FlushInterval      time.Duration

	Strategy Strategy
	// PoolSize задает число горутин общего пула для PooledStrategy.
	PoolSize int

	Overflow        OverflowPolicy
	OverflowTimeout time.Duration

	Failure        FailurePolicy
	Retry          dispatcher.Config
	DeadLetterSize int

	Observer Observer
	Meter    meter.Meter
}

func (o Options) withDefaults() Options {
	if o.HighWaterMark <= 0 {
		o.HighWaterMark = defaultHighWaterMark
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = defaultFlushInterval
	}
	if o.Strategy == "" {
		o.Strategy = defaultStrategy
	}
	if o.PoolSize <= 0 {
		o.PoolSize = defaultPoolSize
	}
	if o.Overflow == "" {
		o.Overflow = defaultOverflow
	}
	if o.OverflowTimeout <= 0 {
		o.OverflowTimeout = defaultOverflowWait
	}
	if o.Failure == "" {
		o.Failure = defaultFailure
	}
	if o.DeadLetterSize <= 0 {
		o.DeadLetterSize = defaultDeadLetterSize
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Meter == nil {
		o.Meter = meter.Nop{}
	}
	return o
}

// Validate проверяет режимы после подстановки значений по умолчанию.
func (o Options) Validate() error {
	o = o.withDefaults()

	switch o.Strategy {
	case EphemeralStrategy, DedicatedStrategy, PooledStrategy:
	default:
		return ErrInvalidStrategy
	}

	switch o.Overflow {
	case OverflowReject, OverflowDropOldest, OverflowDropNewest, OverflowBlock:
	default:
		return ErrInvalidOverflow
	}

	switch o.Failure {
	case FailureDrop, FailureRetry, FailureDeadLetter, FailureStopLane:
	default:
		return ErrInvalidFailure
	}

	return nil
}
