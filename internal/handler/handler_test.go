package handler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc_Handle(t *testing.T) {
	var got []int

	h := Func[int](func(ctx context.Context, batch []int) error {
		got = append(got, batch...)
		return nil
	})

	assert.NoError(t, h.Handle(t.Context(), []int{1, 2}))
	assert.NoError(t, h.Close())
	assert.Equal(t, []int{1, 2}, got)
}

func TestWithClose(t *testing.T) {
	var (
		got    []int
		closed int
	)
	errClose := errors.New("close failed")

	h := WithClose[int](func(ctx context.Context, batch []int) error {
		got = append(got, batch...)
		return nil
	}, func() error {
		closed++
		return errClose
	})

	require.NoError(t, h.Handle(t.Context(), []int{3}))
	assert.ErrorIs(t, h.Close(), errClose)
	assert.Equal(t, []int{3}, got)
	assert.Equal(t, 1, closed)

	nop := WithClose[int](func(context.Context, []int) error { return nil }, nil)
	assert.NoError(t, nop.Close())
}

func TestSerialized_NoConcurrentHandle(t *testing.T) {
	var (
		active  atomic.Int32
		overlap atomic.Bool
	)

	inner := Func[int](func(ctx context.Context, batch []int) error {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return nil
	})

	s := NewSerialized[int](inner)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Handle(context.Background(), []int{i})
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load(), "Handle вызван параллельно")
	assert.NoError(t, s.Close())
}
