package dispatcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Success(t *testing.T) {
	var called atomic.Int32

	d := NewDispatcher(Config{})
	err := d.Write(context.Background(), func(ctx context.Context) error {
		called.Add(1)
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, int32(1), called.Load())
}

func TestDispatcher_BackoffRetry(t *testing.T) {
	var called atomic.Int32
	failures := int32(2)

	d := NewDispatcher(Config{Attempts: 5, StartTimeout: 10 * time.Millisecond})
	err := d.Write(context.Background(), func(ctx context.Context) error {
		if called.Add(1) <= failures {
			return errors.New("fail")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, failures+1, called.Load())
}

func TestDispatcher_AttemptsExhausted(t *testing.T) {
	var called atomic.Int32

	d := NewDispatcher(Config{Attempts: 3, StartTimeout: 10 * time.Millisecond})
	err := d.Write(context.Background(), func(ctx context.Context) error {
		called.Add(1)
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, ErrBackoffTimeout)
	assert.Equal(t, int32(3), called.Load())
}

func TestDispatcher_AttemptTimeoutGrows(t *testing.T) {
	var deadlines []time.Duration

	d := NewDispatcher(Config{Attempts: 3, StartTimeout: 100 * time.Millisecond, Multiply: 2})
	_ = d.Write(context.Background(), func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		deadlines = append(deadlines, time.Until(deadline))
		return errors.New("fail")
	})

	assert.Len(t, deadlines, 3)
	assert.Greater(t, deadlines[1], deadlines[0])
	assert.Greater(t, deadlines[2], deadlines[1])
}

func TestDispatcher_ContextCancel(t *testing.T) {
	var called atomic.Int32

	d := NewDispatcher(Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Write(ctx, func(ctx context.Context) error {
		called.Add(1)
		// имитируем долгую операцию
		time.Sleep(50 * time.Millisecond)
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, called.Load(), int32(1))
}
