package meter

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultEvery = 1000

// Meter считает обработанные сообщения.
// Используется только для наблюдения и не влияет на доставку.
type Meter interface {
	Mark(n int)
}

// Nop ничего не считает.
type Nop struct{}

func (Nop) Mark(int) {}

// LogMeter каждые every сообщений пишет в лог примерную скорость обработки
// с момента первого учтенного сообщения.
type LogMeter struct {
	name  string
	every int64
	count atomic.Int64

	startOnce sync.Once
	start     time.Time

	now func() time.Time
}

func NewLogMeter(name string, every int) *LogMeter {
	if every <= 0 {
		every = defaultEvery
	}

	return &LogMeter{
		name:  name,
		every: int64(every),
		now:   time.Now,
	}
}

func (m *LogMeter) Mark(n int) {
	if n <= 0 {
		return
	}

	m.startOnce.Do(func() {
		m.start = m.now()
	})

	total := m.count.Add(int64(n))
	before := total - int64(n)

	if total/m.every == before/m.every {
		return
	}

	elapsed := m.now().Sub(m.start)

	var rate float64
	if elapsed > 0 {
		rate = float64(total) / elapsed.Seconds()
	}

	zap.L().Info("throughput",
		zap.String("meter", m.name),
		zap.Int64("messages", total),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}

// Count возвращает число учтенных сообщений.
func (m *LogMeter) Count() int64 {
	return m.count.Load()
}
