package sender

import (
	"context"

	"events-dispatcher/internal/event"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const statementHeader = "statement"

type KafkaSender struct {
	writer KafkaWriter
}

func NewKafkaSender(cfg KafkaConfig) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// Handle пишет батч одним вызовом WriteMessages.
// Ключом сообщения служит SID, показания датчика попадают в одну партицию.
func (s *KafkaSender) Handle(ctx context.Context, batch []event.SensorEvent) error {
	if len(batch) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(batch))
	for i := range batch {
		messages = append(messages, kafka.Message{
			Key:   []byte(batch[i].SID),
			Value: batch[i].Bytes(),
			Headers: []kafka.Header{
				{Key: statementHeader, Value: []byte(batch[i].StatementName)},
			},
		})
	}

	if err := s.writer.WriteMessages(ctx, messages...); err != nil {
		zap.L().Error(err.Error(), zap.Int("batch_size", len(batch)))
		return errors.Wrap(err, "kafka write")
	}

	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
