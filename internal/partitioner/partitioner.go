package partitioner

// Partitioner выбирает партицию для сообщения по кругу
// и передает его в функцию записи партиции.
type Partitioner[T any] struct {
	writePartitionFn WritePartitionFn[T]
	rr               *RRCircle
	count            int
}

// NewPartitioner создаёт Partitioner на count партиций.
func NewPartitioner[T any](count int, writeFn WritePartitionFn[T]) (*Partitioner[T], error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	return &Partitioner[T]{
		writePartitionFn: writeFn,
		rr:               NewRRCircle(count),
		count:            count,
	}, nil
}

// Write передает сообщение в следующую по кругу партицию
// и возвращает ошибку функции записи.
func (p *Partitioner[T]) Write(message T) error {
	return p.writePartitionFn(p.rr.Load(), message)
}

// Count возвращает число партиций.
func (p *Partitioner[T]) Count() int {
	return p.count
}
