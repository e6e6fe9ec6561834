package queue

type config struct {
	capacity int
}

// Option настраивает Queue при создании.
type Option func(*config)

// WithCapacity задает емкость буфера каждой линии.
// Без этой опции емкость выбирает фабрика (два батча).
func WithCapacity(capacity int) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}
