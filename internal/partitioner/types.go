package partitioner

// WritePartitionFn передает сообщение в выбранную партицию.
type WritePartitionFn[T any] = func(partition int, message T) error
