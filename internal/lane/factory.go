package lane

import (
	"sync"
	"sync/atomic"

	"events-dispatcher/internal/handler"
)

// WorkerFactory создает сконфигурированные линии.
// Close освобождает ресурсы, общие для созданных линий,
// и вызывается после остановки всех линий.
type WorkerFactory[T any] interface {
	Create(h handler.Handler[T]) (*Worker[T], error)
	CreateWithBatchSize(batchSize int, h handler.Handler[T]) (*Worker[T], error)
	CreateWithCapacity(batchSize, capacity int, h handler.Handler[T]) (*Worker[T], error)
	Close() error
}

// Factory создает линии с общими Options.
type Factory[T any] struct {
	opts   Options
	nextID atomic.Int32

	mu     sync.Mutex
	pool   *Pool
	closed bool
}

// NewFactory проверяет настройки и создает фабрику линий.
func NewFactory[T any](opts Options) (*Factory[T], error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Factory[T]{opts: opts}, nil
}

// Create создает линию с батчем из одного сообщения и практически
// неограниченным буфером.
func (f *Factory[T]) Create(h handler.Handler[T]) (*Worker[T], error) {
	return f.CreateWithCapacity(defaultBatchSize, unboundedCapacity, h)
}

// CreateWithBatchSize создает линию с буфером на два батча.
func (f *Factory[T]) CreateWithBatchSize(batchSize int, h handler.Handler[T]) (*Worker[T], error) {
	return f.CreateWithCapacity(batchSize, 2*batchSize, h)
}

// CreateWithCapacity создает линию с емкостью max(batchSize, capacity).
func (f *Factory[T]) CreateWithCapacity(batchSize, capacity int, h handler.Handler[T]) (*Worker[T], error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if batchSize < 1 {
		return nil, ErrInvalidBatchSize
	}

	executor, err := f.executor()
	if err != nil {
		return nil, err
	}

	id := int(f.nextID.Add(1) - 1)

	return newWorker(id, batchSize, capacity, h, executor, f.opts), nil
}

func (f *Factory[T]) executor() (Executor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFactoryClosed
	}

	switch f.opts.Strategy {
	case EphemeralStrategy:
		return newEphemeralExecutor(), nil
	case PooledStrategy:
		if f.pool == nil {
			f.pool = NewPool(f.opts.PoolSize, defaultPoolQueueSize)
		}
		return f.pool.Executor(), nil
	default:
		return newDedicatedExecutor(), nil
	}
}

// Close останавливает общий пул, если он создавался.
func (f *Factory[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.pool != nil {
		f.pool.Close()
	}

	return nil
}
