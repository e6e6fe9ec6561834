package sender

import (
	"context"
	"strconv"

	"events-dispatcher/internal/event"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSender добавляет события батча в redis stream одним pipeline.
// Длина стрима ограничивается MaxLen приблизительно (MAXLEN ~).
type RedisSender struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisSender(cfg RedisConfig) *RedisSender {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return newRedisSender(client, cfg)
}

func newRedisSender(client *redis.Client, cfg RedisConfig) *RedisSender {
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}

	return &RedisSender{
		client: client,
		stream: cfg.Stream,
		maxLen: maxLen,
	}
}

func (s *RedisSender) Handle(ctx context.Context, batch []event.SensorEvent) error {
	if len(batch) == 0 {
		return nil
	}

	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range batch {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: s.stream,
				MaxLen: s.maxLen,
				Approx: true,
				Values: map[string]any{
					"statement": batch[i].StatementName,
					"SID":       batch[i].SID,
					"timestamp": batch[i].Timestamp,
					"value":     strconv.FormatFloat(batch[i].Value, 'f', -1, 64),
				},
			})
		}
		return nil
	})
	if err != nil {
		zap.L().Error(err.Error(), zap.String("stream", s.stream), zap.Int("batch_size", len(batch)))
		return errors.Wrap(err, "redis xadd")
	}

	return nil
}

func (s *RedisSender) Close() error {
	return s.client.Close()
}
