package lane

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"events-dispatcher/internal/dispatcher"
	"events-dispatcher/internal/handler"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Worker — одна линия очереди: ограниченный буфер, периодический таймер
// и выгрузка батчей в Handler, которая в каждый момент выполняется не более
// чем в одном экземпляре.
type Worker[T any] struct {
	id        int
	batchSize int
	capacity  int
	triggerAt int

	handler  handler.Handler[T]
	executor Executor
	opts     Options
	retry    *dispatcher.Dispatcher

	mu      sync.Mutex
	buffer  *ring[T]
	space   chan struct{}
	stopped bool

	flushing atomic.Bool
	stopping atomic.Bool
	failed   atomic.Bool

	deadLetters chan DeadLetter[T]
	overflowLog rate.Sometimes

	ctx        context.Context
	cancel     context.CancelFunc
	tickerStop chan struct{}
	tickerWg   sync.WaitGroup
	stopOnce   sync.Once
	stopErr    error
}

func newWorker[T any](id, batchSize, capacity int, h handler.Handler[T], executor Executor, opts Options) *Worker[T] {
	capacity = max(batchSize, capacity)

	triggerAt := opts.HighWaterMark + 1
	if !opts.DisableSizeTrigger {
		triggerAt = min(triggerAt, batchSize)
	}

	dlqSize := 0
	if opts.Failure == FailureDeadLetter {
		dlqSize = opts.DeadLetterSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker[T]{
		id:          id,
		batchSize:   batchSize,
		capacity:    capacity,
		triggerAt:   triggerAt,
		handler:     h,
		executor:    executor,
		opts:        opts,
		retry:       dispatcher.NewDispatcher(opts.Retry),
		buffer:      newRing[T](min(capacity, initialBufferSize)),
		space:       make(chan struct{}),
		deadLetters: make(chan DeadLetter[T], dlqSize),
		overflowLog: rate.Sometimes{Interval: overflowLogPeriod},
		ctx:         ctx,
		cancel:      cancel,
		tickerStop:  make(chan struct{}),
	}

	w.tickerWg.Add(1)
	go w.tick()

	return w
}

// ID возвращает номер линии внутри фабрики.
func (w *Worker[T]) ID() int {
	return w.id
}

// Len возвращает текущую заполненность буфера.
func (w *Worker[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buffer.Len()
}

// DeadLetters возвращает канал батчей, не обработанных при политике dead_letter.
// Канал закрывается после Stop.
func (w *Worker[T]) DeadLetters() <-chan DeadLetter[T] {
	return w.deadLetters
}

// AddMessage кладет сообщение в буфер линии.
// При заполненном буфере поведение определяется политикой переполнения,
// по умолчанию возвращается ErrBufferOverflow.
func (w *Worker[T]) AddMessage(message T) error {
	if w.failed.Load() {
		return ErrLaneFailed
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWorkerStopped
	}

	if w.buffer.Len() >= w.capacity {
		switch w.opts.Overflow {
		case OverflowDropNewest:
			w.mu.Unlock()
			w.dropped(1)
			return nil

		case OverflowDropOldest:
			w.buffer.PopFront()
			w.buffer.Push(message)
			size := w.buffer.Len()
			w.mu.Unlock()
			w.dropped(1)
			w.trigger(size)
			return nil

		case OverflowBlock:
			w.mu.Unlock()
			return w.addBlocking(message)

		default:
			w.mu.Unlock()
			w.overflowed()
			return ErrBufferOverflow
		}
	}

	w.buffer.Push(message)
	size := w.buffer.Len()
	w.mu.Unlock()

	w.trigger(size)

	return nil
}

// addBlocking ждет освобождения места не дольше OverflowTimeout.
func (w *Worker[T]) addBlocking(message T) error {
	timer := time.NewTimer(w.opts.OverflowTimeout)
	defer timer.Stop()

	for {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return ErrWorkerStopped
		}

		if w.buffer.Len() < w.capacity {
			w.buffer.Push(message)
			size := w.buffer.Len()
			w.mu.Unlock()
			w.trigger(size)
			return nil
		}

		space := w.space
		w.mu.Unlock()

		w.checkBuffer(1)

		select {
		case <-space:
		case <-timer.C:
			w.overflowed()
			return ErrBufferOverflow
		}
	}
}

// Flush запрашивает асинхронную выгрузку непустого буфера.
// Если выгрузка уже идет, запрос ничего не делает: она сама перепроверит буфер.
func (w *Worker[T]) Flush() {
	w.checkBuffer(1)
}

// Stop останавливает таймер, дожидается текущей выгрузки и синхронно
// выгружает все оставшиеся сообщения батчами не больше batchSize.
// Повторные вызовы возвращают результат первого.
func (w *Worker[T]) Stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.stop()
	})

	return w.stopErr
}

func (w *Worker[T]) stop() error {
	defer w.cancel()
	defer close(w.deadLetters)

	close(w.tickerStop)
	w.tickerWg.Wait()

	w.stopping.Store(true)

	w.mu.Lock()
	w.stopped = true
	close(w.space)
	w.space = make(chan struct{})
	w.mu.Unlock()

	w.executor.Close()

	// исполнитель закрыт, других выгрузок больше не будет
	w.flushing.Store(true)

	for !w.failed.Load() && w.publishOnce() > 0 {
	}

	w.opts.Observer.Buffered(w.id, w.Len())

	if w.failed.Load() {
		if abandoned := w.Len(); abandoned > 0 {
			zap.L().Error("lane stopped with undelivered messages",
				zap.Int("lane", w.id),
				zap.Int("abandoned", abandoned),
			)
			w.opts.Observer.Dropped(w.id, abandoned)
		}
		return ErrLaneFailed
	}

	return nil
}

// trigger запускает выгрузку, если заполненность достигла порога
// размера батча или превысила HighWaterMark.
func (w *Worker[T]) trigger(size int) {
	if size >= w.triggerAt {
		w.checkBuffer(w.triggerAt)
	}
}

// checkBuffer переводит линию из IDLE в DRAINING, если в буфере не меньше
// minSize сообщений и выгрузка еще не идет.
func (w *Worker[T]) checkBuffer(minSize int) {
	if w.stopping.Load() || w.failed.Load() {
		return
	}

	if w.Len() < minSize {
		return
	}

	if !w.flushing.CompareAndSwap(false, true) {
		return
	}

	if err := w.executor.Submit(w.publish); err != nil {
		w.flushing.Store(false)
		zap.L().Warn("flush was not scheduled",
			zap.Int("lane", w.id),
			zap.Error(err),
		)
	}
}

// publish выгружает один батч, возвращает линию в IDLE
// и сразу перепроверяет накопившийся хвост.
func (w *Worker[T]) publish() {
	defer w.checkBuffer(1)
	defer w.flushing.Store(false)

	w.publishOnce()
}

// publishOnce снимает до batchSize сообщений и передает их в Handler.
// Возвращает размер выгруженного батча.
func (w *Worker[T]) publishOnce() int {
	w.mu.Lock()
	batch := w.buffer.PopN(w.batchSize)
	if len(batch) > 0 {
		close(w.space)
		w.space = make(chan struct{})
	}
	w.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}

	w.safeDeliver(batch)

	return len(batch)
}

// safeDeliver не дает панике в Observer или Meter остановить выгрузку линии.
func (w *Worker[T]) safeDeliver(batch []T) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("batch delivery panicked",
				zap.Int("lane", w.id),
				zap.Int("batch_size", len(batch)),
				zap.Any("panic", r),
			)
		}
	}()

	w.deliver(batch)
}

func (w *Worker[T]) deliver(batch []T) {
	start := time.Now()

	err := w.handle(w.ctx, batch)
	if err == nil {
		w.delivered(batch, start)
		return
	}

	w.opts.Observer.Failed(w.id, len(batch))
	zap.L().Error("batch handling failed",
		zap.Int("lane", w.id),
		zap.Int("batch_size", len(batch)),
		zap.String("policy", string(w.opts.Failure)),
		zap.Error(err),
	)

	switch w.opts.Failure {
	case FailureRetry:
		err = w.retry.Write(w.ctx, func(ctx context.Context) error {
			return w.handle(ctx, batch)
		})
		if err == nil {
			w.delivered(batch, start)
			return
		}

		zap.L().Error("batch dropped after retries",
			zap.Int("lane", w.id),
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		w.opts.Observer.Dropped(w.id, len(batch))

	case FailureDeadLetter:
		select {
		case w.deadLetters <- DeadLetter[T]{Lane: w.id, Batch: batch, Err: err}:
		default:
			zap.L().Error("dead letter queue is full, dropping batch",
				zap.Int("lane", w.id),
				zap.Int("batch_size", len(batch)),
			)
			w.opts.Observer.Dropped(w.id, len(batch))
		}

	case FailureStopLane:
		w.failed.Store(true)
		w.opts.Observer.Dropped(w.id, len(batch))
		zap.L().Error("lane stopped", zap.Int("lane", w.id))

	default:
		w.opts.Observer.Dropped(w.id, len(batch))
	}
}

// handle вызывает Handler и превращает панику в ошибку.
func (w *Worker[T]) handle(ctx context.Context, batch []T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return w.handler.Handle(ctx, batch)
}

func (w *Worker[T]) delivered(batch []T, start time.Time) {
	w.opts.Observer.Delivered(w.id, len(batch), time.Since(start))
	w.opts.Meter.Mark(len(batch))
}

func (w *Worker[T]) dropped(count int) {
	w.opts.Observer.Dropped(w.id, count)
	w.overflowLog.Do(func() {
		zap.L().Warn("lane buffer is full, message dropped",
			zap.Int("lane", w.id),
			zap.String("policy", string(w.opts.Overflow)),
		)
	})
}

func (w *Worker[T]) overflowed() {
	w.opts.Observer.Overflowed(w.id)
	w.overflowLog.Do(func() {
		zap.L().Warn("lane buffer overflow",
			zap.Int("lane", w.id),
			zap.Int("capacity", w.capacity),
		)
	})
}

// tick — периодическая проверка буфера, ограничивающая задержку
// для линий, которые не набирают полный батч.
func (w *Worker[T]) tick() {
	defer w.tickerWg.Done()

	ticker := time.NewTicker(w.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.tickerStop:
			return
		case <-ticker.C:
			w.safeTick()
		}
	}
}

func (w *Worker[T]) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("flush tick panicked",
				zap.Int("lane", w.id),
				zap.Any("panic", r),
			)
		}
	}()

	w.opts.Observer.Buffered(w.id, w.Len())
	w.checkBuffer(1)
}
