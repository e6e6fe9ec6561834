package lane

// ring — FIFO-очередь на кольцевом буфере, растущем по мере надобности.
// Не потокобезопасна, доступ защищает мьютекс Worker.
type ring[T any] struct {
	buf  []T
	head int
	size int
}

func newRing[T any](initial int) *ring[T] {
	return &ring[T]{buf: make([]T, initial)}
}

func (r *ring[T]) Len() int {
	return r.size
}

func (r *ring[T]) Push(v T) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = v
	r.size++
}

func (r *ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.size--

	return v, true
}

// PopN снимает с начала до n элементов в порядке поступления.
// Возвращаемый срез принадлежит вызывающему.
func (r *ring[T]) PopN(n int) []T {
	n = min(n, r.size)
	if n <= 0 {
		return nil
	}

	var zero T
	out := make([]T, n)
	for i := range n {
		idx := (r.head + i) % len(r.buf)
		out[i] = r.buf[idx]
		r.buf[idx] = zero
	}

	r.head = (r.head + n) % len(r.buf)
	r.size -= n

	return out
}

func (r *ring[T]) grow() {
	next := make([]T, max(2*len(r.buf), 8))
	for i := range r.size {
		next[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = next
	r.head = 0
}
