package lane

// Strategy определяет, где выполняется выгрузка батча.
type Strategy string

const (
	// EphemeralStrategy запускает каждую выгрузку в новой горутине.
	EphemeralStrategy Strategy = "ephemeral"
	// DedicatedStrategy выполняет выгрузки линии в одной постоянной горутине,
	// порядок отправки совпадает с порядком выполнения.
	DedicatedStrategy Strategy = "dedicated"
	// PooledStrategy использует общий ограниченный пул горутин для всех линий фабрики.
	PooledStrategy Strategy = "pooled"

	defaultStrategy = DedicatedStrategy
)

// OverflowPolicy определяет поведение AddMessage при заполненном буфере.
type OverflowPolicy string

const (
	OverflowReject     OverflowPolicy = "reject"
	OverflowDropOldest OverflowPolicy = "drop_oldest"
	OverflowDropNewest OverflowPolicy = "drop_newest"
	OverflowBlock      OverflowPolicy = "block"

	defaultOverflow = OverflowReject
)

// FailurePolicy определяет, что делать с батчем, который Handler не смог обработать.
type FailurePolicy string

const (
	FailureDrop       FailurePolicy = "drop"
	FailureRetry      FailurePolicy = "retry"
	FailureDeadLetter FailurePolicy = "dead_letter"
	FailureStopLane   FailurePolicy = "stop_lane"

	defaultFailure = FailureDrop
)
