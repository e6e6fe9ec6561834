package sender

import (
	"events-dispatcher/internal/event"
	"events-dispatcher/internal/handler"

	"github.com/pkg/errors"
)

// Sender доставляет батчи событий внешнему получателю.
type Sender = handler.Handler[event.SensorEvent]

// New создает Sender по типу из конфигурации.
func New(cfg Config) (Sender, error) {
	switch cfg.Type {
	case LogType, "":
		return NewLogSender(), nil
	case KafkaType:
		return NewKafkaSender(cfg.Kafka), nil
	case RedisType:
		return NewRedisSender(cfg.Redis), nil
	case HTTPType:
		return NewHTTPSender(cfg.HTTP), nil
	case WebSocketType:
		return NewWebSocketSender(cfg.WebSocket), nil
	default:
		return nil, errors.Wrapf(ErrUnknownType, "type %q", cfg.Type)
	}
}
