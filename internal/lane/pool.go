package lane

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pool — ограниченный пул горутин, общий для нескольких линий.
// Число одновременно работающих выгрузок не превышает размер пула.
type Pool struct {
	tasks           chan func()
	workersFinished chan struct{}
	mu              sync.RWMutex
	closed          atomic.Bool
}

// NewPool создаёт пул и запускает workerCount воркеров
// и горутину, отслеживающую их завершение.
func NewPool(workerCount int, queueSize int) *Pool {
	if workerCount <= 0 {
		workerCount = defaultPoolSize
	}
	if queueSize <= 0 {
		queueSize = defaultPoolQueueSize
	}

	p := &Pool{
		tasks:           make(chan func(), queueSize),
		workersFinished: make(chan struct{}),
	}

	wg := &sync.WaitGroup{}
	wg.Add(workerCount)
	for range workerCount {
		go p.worker(wg)
	}

	go func() {
		wg.Wait()
		close(p.workersFinished)
	}()

	return p
}

func (p *Pool) submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return ErrExecutorClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrExecutorBusy
	}
}

// Executor возвращает исполнитель линии поверх общего пула.
// Close такого исполнителя ждет только задачи своей линии.
func (p *Pool) Executor() Executor {
	return &pooledExecutor{pool: p}
}

// Close дожидается выполнения принятых задач и останавливает воркеров.
// Повторный вызов ничего не делает.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		<-p.workersFinished
		return
	}
	close(p.tasks)
	p.mu.Unlock()

	<-p.workersFinished
}

// worker — рабочая горутина пула, завершается после закрытия очереди задач.
func (p *Pool) worker(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pool task panicked", zap.Any("panic", r))
		}
	}()

	task()
}

type pooledExecutor struct {
	pool   *Pool
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (e *pooledExecutor) Submit(task func()) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrExecutorClosed
	}
	e.wg.Add(1)
	e.mu.Unlock()

	err := e.pool.submit(func() {
		defer e.wg.Done()
		task()
	})
	if err != nil {
		e.wg.Done()
		return err
	}

	return nil
}

func (e *pooledExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.wg.Wait()
}
