package lane

import (
	"testing"
	"time"

	"events-dispatcher/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		err  error
	}{
		{name: "defaults", opts: Options{}},
		{name: "unknown strategy", opts: Options{Strategy: "fork"}, err: ErrInvalidStrategy},
		{name: "unknown overflow", opts: Options{Overflow: "ignore"}, err: ErrInvalidOverflow},
		{name: "unknown failure", opts: Options{Failure: "panic"}, err: ErrInvalidFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFactory[int](tt.opts)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, f)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, f.Close())
		})
	}
}

func TestFactory_InvalidArguments(t *testing.T) {
	f, err := NewFactory[int](Options{})
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Create(nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = f.CreateWithBatchSize(0, handler.Nop[int]{})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = f.CreateWithCapacity(-1, 10, handler.Nop[int]{})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestFactory_CapacityRules(t *testing.T) {
	f, err := NewFactory[int](quietOptions(DedicatedStrategy))
	require.NoError(t, err)
	defer f.Close()

	w, err := f.Create(handler.Nop[int]{})
	require.NoError(t, err)
	assert.Equal(t, 1, w.batchSize)
	assert.Equal(t, unboundedCapacity, w.capacity)
	require.NoError(t, w.Stop())

	w, err = f.CreateWithBatchSize(50, handler.Nop[int]{})
	require.NoError(t, err)
	assert.Equal(t, 50, w.batchSize)
	assert.Equal(t, 100, w.capacity)
	require.NoError(t, w.Stop())

	// емкость не может быть меньше батча
	w, err = f.CreateWithCapacity(10, 3, handler.Nop[int]{})
	require.NoError(t, err)
	assert.Equal(t, 10, w.capacity)
	require.NoError(t, w.Stop())
}

func TestFactory_SequentialIDs(t *testing.T) {
	f, err := NewFactory[int](quietOptions(EphemeralStrategy))
	require.NoError(t, err)
	defer f.Close()

	for i := range 3 {
		w, err := f.Create(handler.Nop[int]{})
		require.NoError(t, err)
		assert.Equal(t, i, w.ID())
		require.NoError(t, w.Stop())
	}
}

func TestFactory_Closed(t *testing.T) {
	f, err := NewFactory[int](Options{})
	require.NoError(t, err)

	require.NoError(t, f.Close())
	assert.NoError(t, f.Close())

	_, err = f.Create(handler.Nop[int]{})
	assert.ErrorIs(t, err, ErrFactoryClosed)
}

func TestFactory_PooledLanesShareBoundedPool(t *testing.T) {
	f, err := NewFactory[int](Options{
		Strategy:      PooledStrategy,
		PoolSize:      2,
		FlushInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	shared := &recorder[int]{delay: 2 * time.Millisecond}

	var workers []*Worker[int]
	for range 6 {
		w, err := f.CreateWithCapacity(1, 100, shared)
		require.NoError(t, err)
		workers = append(workers, w)
	}
	assert.NotNil(t, f.pool)

	for i := range 20 {
		for _, w := range workers {
			require.NoError(t, w.AddMessage(i))
		}
	}

	// финальная выгрузка в Stop идет вне пула, поэтому ждем доставки до остановки
	require.Eventually(t, func() bool {
		return len(shared.Flat()) == 120
	}, 5*time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, shared.maxActive.Load(), int32(2))

	for _, w := range workers {
		require.NoError(t, w.Stop())
	}
	require.NoError(t, f.Close())
}
