package sender

import (
	"context"

	"events-dispatcher/internal/event"

	"go.uber.org/zap"
)

// LogSender пишет батчи в лог, по строке на statement.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Handle(_ context.Context, batch []event.SensorEvent) error {
	for _, st := range event.NewEnvelope(batch).Messages {
		zap.L().Info("batch",
			zap.String("statement", st.Statement),
			zap.Int("events", len(st.Event)),
		)
	}
	return nil
}

func (s *LogSender) Close() error {
	return nil
}
