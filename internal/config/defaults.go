package config

import (
	"time"

	"events-dispatcher/internal/lane"
	"events-dispatcher/internal/logger"
	"events-dispatcher/internal/sender"
)

const EnvPrefix = "DISPATCHER"

func DefaultConfig() *Config {
	return &Config{
		Queue: QueueConfig{
			BatchSize:     1,
			WorkerCount:   4,
			HighWaterMark: 1000,
			SizeTrigger:   true,
			FlushInterval: 100 * time.Millisecond,
			Strategy:      lane.DedicatedStrategy,
			PoolSize:      2,
			Overflow: OverflowConfig{
				Policy:  lane.OverflowReject,
				Timeout: 50 * time.Millisecond,
			},
			Failure: FailureConfig{
				Policy:          lane.FailureDrop,
				RetryAttempts:   5,
				RetryTimeout:    time.Second,
				RetryMultiplier: 1.2,
				DeadLetterSize:  128,
			},
		},
		Log: logger.Config{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			Port:            8090,
			ThroughputEvery: 1000,
		},
		Sender: sender.Config{
			Type: sender.LogType,
			Kafka: sender.KafkaConfig{
				Brokers: []string{"kafka:9092"},
				Topic:   "events",
			},
			Redis: sender.RedisConfig{
				Addr:   "localhost:6379",
				Stream: "events",
				MaxLen: 100_000,
			},
			HTTP: sender.HTTPConfig{
				URL:     "http://localhost:8080/events",
				Timeout: 5 * time.Second,
			},
			WebSocket: sender.WebSocketConfig{
				URL:          "ws://localhost:8081/events",
				MinReconnect: time.Second,
				MaxReconnect: 30 * time.Minute,
			},
		},
		Generator: GeneratorConfig{
			Mode:    "regular",
			Sensors: 10,
			Tick:    10 * time.Millisecond,
		},
	}
}
