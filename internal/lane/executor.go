package lane

import "sync"

// Executor запускает задачи выгрузки линии.
// Submit не блокируется. Close запрещает новые задачи
// и дожидается завершения уже принятых.
type Executor interface {
	Submit(task func()) error
	Close()
}

// ephemeralExecutor запускает каждую задачу в новой горутине.
type ephemeralExecutor struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newEphemeralExecutor() *ephemeralExecutor {
	return &ephemeralExecutor{}
}

func (e *ephemeralExecutor) Submit(task func()) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrExecutorClosed
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		task()
	}()

	return nil
}

func (e *ephemeralExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.wg.Wait()
}

// dedicatedExecutor выполняет задачи строго по очереди в одной горутине.
type dedicatedExecutor struct {
	tasks  chan func()
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func newDedicatedExecutor() *dedicatedExecutor {
	e := &dedicatedExecutor{
		// линия держит не больше одной задачи в очереди, второй слот на случай
		// повторной проверки из уже выполняющейся задачи
		tasks: make(chan func(), 2),
		done:  make(chan struct{}),
	}

	go e.loop()

	return e
}

func (e *dedicatedExecutor) loop() {
	defer close(e.done)

	for task := range e.tasks {
		task()
	}
}

func (e *dedicatedExecutor) Submit(task func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrExecutorClosed
	}

	select {
	case e.tasks <- task:
		return nil
	default:
		return ErrExecutorBusy
	}
}

func (e *dedicatedExecutor) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.tasks)
	}
	e.mu.Unlock()

	<-e.done
}
