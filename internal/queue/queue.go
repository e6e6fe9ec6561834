package queue

import (
	"errors"
	"sync"
	"sync/atomic"

	"events-dispatcher/internal/handler"
	"events-dispatcher/internal/lane"
	"events-dispatcher/internal/partitioner"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Queue распределяет сообщения по линиям по кругу.
// Все линии отдают батчи в один общий Handler.
type Queue[T any] struct {
	workers     []*lane.Worker[T]
	partitioner *partitioner.Partitioner[T]
	handler     handler.Handler[T]
	factory     lane.WorkerFactory[T]

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New создает workerCount линий с общим handler.
// Очередь не владеет фабрикой и не закрывает ее.
func New[T any](
	factory lane.WorkerFactory[T],
	h handler.Handler[T],
	workerCount int,
	batchSize int,
	opts ...Option,
) (*Queue[T], error) {
	if workerCount < 1 {
		return nil, ErrInvalidWorkerCount
	}

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &Queue[T]{
		workers: make([]*lane.Worker[T], 0, workerCount),
		handler: h,
		factory: factory,
	}

	for range workerCount {
		w, err := q.create(batchSize, cfg)
		if err != nil {
			for _, created := range q.workers {
				_ = created.Stop()
			}
			return nil, err
		}
		q.workers = append(q.workers, w)
	}

	p, err := partitioner.NewPartitioner[T](workerCount, q.writeLane)
	if err != nil {
		return nil, err
	}
	q.partitioner = p

	zap.L().Info("queue started",
		zap.Int("lanes", workerCount),
		zap.Int("batch_size", batchSize),
	)

	return q, nil
}

func (q *Queue[T]) create(batchSize int, cfg config) (*lane.Worker[T], error) {
	if cfg.capacity > 0 {
		return q.factory.CreateWithCapacity(batchSize, cfg.capacity, q.handler)
	}

	return q.factory.CreateWithBatchSize(batchSize, q.handler)
}

func (q *Queue[T]) writeLane(index int, message T) error {
	return q.workers[index].AddMessage(message)
}

// AddMessage передает сообщение следующей по кругу линии.
// Ошибку переполнения или остановки возвращает сама линия.
func (q *Queue[T]) AddMessage(message T) error {
	if q.closed.Load() {
		return ErrClosed
	}

	err := q.partitioner.Write(message)
	if errors.Is(err, lane.ErrWorkerStopped) && q.closed.Load() {
		return ErrClosed
	}

	return err
}

// Flush запрашивает выгрузку у каждой линии по очереди.
func (q *Queue[T]) Flush() {
	for _, w := range q.workers {
		w.Flush()
	}
}

// Close выгружает и останавливает все линии, затем один раз закрывает Handler.
// Фабрика остается у вызывающего: ее могут использовать другие очереди.
// Повторные вызовы возвращают результат первого.
func (q *Queue[T]) Close() error {
	q.closeOnce.Do(func() {
		q.closed.Store(true)
		q.closeErr = q.close()
	})

	return q.closeErr
}

func (q *Queue[T]) close() error {
	q.Flush()

	stopErrs := make([]error, len(q.workers))

	var g errgroup.Group
	for i, w := range q.workers {
		g.Go(func() error {
			stopErrs[i] = w.Stop()
			return nil
		})
	}
	_ = g.Wait()

	errs := stopErrs
	if err := q.handler.Close(); err != nil {
		zap.L().Error("handler close failed", zap.Error(err))
		errs = append(errs, err)
	}

	zap.L().Info("queue closed", zap.Int("lanes", len(q.workers)))

	return errors.Join(errs...)
}

// Lanes возвращает число линий.
func (q *Queue[T]) Lanes() int {
	return len(q.workers)
}

// Len возвращает суммарную заполненность буферов.
func (q *Queue[T]) Len() int {
	total := 0
	for _, w := range q.workers {
		total += w.Len()
	}
	return total
}

// Workers возвращает линии очереди, например для чтения DeadLetters.
func (q *Queue[T]) Workers() []*lane.Worker[T] {
	return q.workers
}
