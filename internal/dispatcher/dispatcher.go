package dispatcher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Dispatcher struct {
	cfg Config
}

// NewDispatcher создает Dispatcher с заданной политикой повторов.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg.withDefaults()}
}

// Write выполняет запись с использованием механизма повторных попыток (backoff).
// Принимает контекст для управления отменой и функцию записи writeFn.
func (d *Dispatcher) Write(ctx context.Context, writeFn WriteFn) error {
	return d.writeWithBackoff(ctx, writeFn)
}

// writeWithBackoff повторяет запись, увеличивая таймаут попытки в Multiply раз.
// Если контекст отменен — возвращается ошибка контекста.
// Если попытки исчерпаны — возвращается ErrBackoffTimeout.
func (d *Dispatcher) writeWithBackoff(ctx context.Context, writeFn WriteFn) error {
	timeout := d.cfg.StartTimeout

	for attempt := range d.cfg.Attempts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.singleWrite(ctx, timeout, writeFn); err != nil {
			zap.L().Warn("write attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Duration("timeout", timeout),
				zap.Error(err),
			)
			timeout = time.Duration(float64(timeout) * d.cfg.Multiply)
			continue
		}

		return nil
	}

	return ErrBackoffTimeout
}

// singleWrite выполняет одну попытку записи с ограничением по времени.
func (d *Dispatcher) singleWrite(ctx context.Context, timeout time.Duration, writeFn WriteFn) error {
	ctxT, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return writeFn(ctxT)
}
