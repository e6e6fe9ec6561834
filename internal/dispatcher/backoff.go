package dispatcher

import (
	"errors"
	"time"
)

const (
	defaultBackoffMultiply     = 1.2
	defaultStartBackoffTimeout = 1 * time.Second
	defaultBackoffAttemptCount = 5
)

var (
	ErrBackoffTimeout = errors.New("backoff timeout")
)

// Config задает параметры повторных попыток.
// Нулевые значения заменяются значениями по умолчанию.
type Config struct {
	Attempts     int
	StartTimeout time.Duration
	Multiply     float64
}

func (c Config) withDefaults() Config {
	if c.Attempts <= 0 {
		c.Attempts = defaultBackoffAttemptCount
	}
	if c.StartTimeout <= 0 {
		c.StartTimeout = defaultStartBackoffTimeout
	}
	if c.Multiply < 1 {
		c.Multiply = defaultBackoffMultiply
	}
	return c
}
