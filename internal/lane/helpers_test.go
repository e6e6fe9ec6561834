package lane

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"events-dispatcher/internal/handler"

	"github.com/stretchr/testify/require"
)

var strategies = []Strategy{EphemeralStrategy, DedicatedStrategy, PooledStrategy}

// recorder запоминает батчи и следит за параллельными вызовами Handle.
type recorder[T any] struct {
	mu      sync.Mutex
	batches [][]T

	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
	closed    atomic.Int32

	delay  time.Duration
	failFn func(call int32, batch []T) error
}

func (r *recorder[T]) Handle(ctx context.Context, batch []T) error {
	call := r.calls.Add(1)

	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		m := r.maxActive.Load()
		if n <= m || r.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	if r.failFn != nil {
		if err := r.failFn(call, batch); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.batches = append(r.batches, slices.Clone(batch))
	r.mu.Unlock()

	return nil
}

func (r *recorder[T]) Close() error {
	r.closed.Add(1)
	return nil
}

func (r *recorder[T]) Batches() [][]T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.batches)
}

func (r *recorder[T]) Flat() []T {
	var out []T
	for _, b := range r.Batches() {
		out = append(out, b...)
	}
	return out
}

// countingObserver считает события линий.
type countingObserver struct {
	delivered  atomic.Int64
	failed     atomic.Int64
	dropped    atomic.Int64
	overflowed atomic.Int64
	buffered   atomic.Int64
}

func (o *countingObserver) Delivered(_, size int, _ time.Duration) { o.delivered.Add(int64(size)) }
func (o *countingObserver) Failed(_, size int)                      { o.failed.Add(int64(size)) }
func (o *countingObserver) Dropped(_, count int)                    { o.dropped.Add(int64(count)) }
func (o *countingObserver) Overflowed(int)                          { o.overflowed.Add(1) }
func (o *countingObserver) Buffered(int, int)                       { o.buffered.Add(1) }

// quietOptions отключает таймер, чтобы выгрузку запускали только явные триггеры.
func quietOptions(strategy Strategy) Options {
	return Options{
		Strategy:      strategy,
		FlushInterval: time.Hour,
	}
}

func newTestWorker[T any](t *testing.T, opts Options, batchSize, capacity int, h handler.Handler[T]) *Worker[T] {
	t.Helper()

	f, err := NewFactory[T](opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	w, err := f.CreateWithCapacity(batchSize, capacity, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	return w
}
