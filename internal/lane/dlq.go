package lane

// DeadLetter хранит батч, который не удалось обработать, вместе с ошибкой.
type DeadLetter[T any] struct {
	Lane  int
	Batch []T
	Err   error
}
