package handler

import (
	"context"
	"sync"
)

// Handler получает готовые батчи из линий очереди.
//
// Handle может вызываться одновременно из разных линий (по одной горутине
// на линию), реализация сама отвечает за защиту своего состояния.
// Батч нельзя изменять и удерживать после возврата из Handle.
// Close вызывается ровно один раз, после остановки всех линий.
type Handler[T any] interface {
	Handle(ctx context.Context, batch []T) error
	Close() error
}

// Func адаптирует обычную функцию к интерфейсу Handler.
type Func[T any] func(ctx context.Context, batch []T) error

func (f Func[T]) Handle(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

func (f Func[T]) Close() error {
	return nil
}

// WithClose собирает Handler из функции обработки и функции закрытия.
// closeFn может быть nil.
func WithClose[T any](handle Func[T], closeFn func() error) Handler[T] {
	return &closingFunc[T]{handle: handle, close: closeFn}
}

type closingFunc[T any] struct {
	handle Func[T]
	close  func() error
}

func (c *closingFunc[T]) Handle(ctx context.Context, batch []T) error {
	return c.handle(ctx, batch)
}

func (c *closingFunc[T]) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Nop принимает и отбрасывает любые батчи.
type Nop[T any] struct{}

func (Nop[T]) Handle(context.Context, []T) error { return nil }

func (Nop[T]) Close() error { return nil }

// Serialized оборачивает Handler, которому нужна последовательная доставка:
// вызовы Handle из разных линий выполняются строго по одному.
type Serialized[T any] struct {
	next Handler[T]
	mu   sync.Mutex
}

func NewSerialized[T any](next Handler[T]) *Serialized[T] {
	return &Serialized[T]{next: next}
}

func (s *Serialized[T]) Handle(ctx context.Context, batch []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next.Handle(ctx, batch)
}

func (s *Serialized[T]) Close() error {
	return s.next.Close()
}
