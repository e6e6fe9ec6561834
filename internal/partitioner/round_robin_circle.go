package partitioner

import "sync/atomic"

// RRCircle выдает индексы 0..count-1 по кругу.
// Счетчик только растет, индекс равен остатку от деления на count.
type RRCircle struct {
	counter atomic.Uint64
	count   uint64
}

func NewRRCircle(count int) *RRCircle {
	return &RRCircle{count: uint64(count)}
}

func (c *RRCircle) Load() int {
	return int((c.counter.Add(1) - 1) % c.count)
}
