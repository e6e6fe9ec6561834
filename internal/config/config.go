package config

import (
	"time"

	"events-dispatcher/internal/dispatcher"
	"events-dispatcher/internal/lane"
	"events-dispatcher/internal/logger"
	"events-dispatcher/internal/sender"
)

// Config описывает полную конфигурацию сервиса.
type Config struct {
	Queue     QueueConfig     `yaml:"queue" env:"QUEUE"`
	Log       logger.Config   `yaml:"log" env:"LOG"`
	Metrics   MetricsConfig   `yaml:"metrics" env:"METRICS"`
	Sender    sender.Config   `yaml:"sender" env:"SENDER"`
	Generator GeneratorConfig `yaml:"generator" env:"GENERATOR"`
}

type QueueConfig struct {
	BatchSize     int `yaml:"batch_size" env:"BATCH_SIZE"`
	QueueCapacity int `yaml:"queue_capacity" env:"QUEUE_CAPACITY"`
	WorkerCount   int `yaml:"worker_count" env:"WORKER_COUNT"`
	HighWaterMark int `yaml:"high_water_mark" env:"HIGH_WATER_MARK"`
	// SizeTrigger запускает выгрузку, как только набран полный батч.
	SizeTrigger   bool           `yaml:"size_trigger" env:"SIZE_TRIGGER"`
	FlushInterval time.Duration  `yaml:"flush_interval" env:"FLUSH_INTERVAL"`
	Strategy      lane.Strategy  `yaml:"strategy" env:"STRATEGY"`
	PoolSize      int            `yaml:"pool_size" env:"POOL_SIZE"`
	Overflow      OverflowConfig `yaml:"overflow" env:"OVERFLOW"`
	Failure       FailureConfig  `yaml:"failure" env:"FAILURE"`
}

type OverflowConfig struct {
	Policy  lane.OverflowPolicy `yaml:"policy" env:"POLICY"`
	Timeout time.Duration       `yaml:"timeout" env:"TIMEOUT"`
}

type FailureConfig struct {
	Policy          lane.FailurePolicy `yaml:"policy" env:"POLICY"`
	RetryAttempts   int                `yaml:"retry_attempts" env:"RETRY_ATTEMPTS"`
	RetryTimeout    time.Duration      `yaml:"retry_timeout" env:"RETRY_TIMEOUT"`
	RetryMultiplier float64            `yaml:"retry_multiplier" env:"RETRY_MULTIPLIER"`
	DeadLetterSize  int                `yaml:"dead_letter_size" env:"DEAD_LETTER_SIZE"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Port    int  `yaml:"port" env:"PORT"`
	// Скорость логируется каждые ThroughputEvery доставленных сообщений.
	ThroughputEvery int `yaml:"throughput_every" env:"THROUGHPUT_EVERY"`
}

type GeneratorConfig struct {
	Mode        string        `yaml:"mode" env:"MODE"`
	InvalidRate float64       `yaml:"invalid_rate" env:"INVALID_RATE"`
	Sensors     int           `yaml:"sensors" env:"SENSORS"`
	Tick        time.Duration `yaml:"tick" env:"TICK"`
}

// LaneOptions переводит настройки очереди в общие настройки линий.
func (q QueueConfig) LaneOptions() lane.Options {
	return lane.Options{
		HighWaterMark:      q.HighWaterMark,
		DisableSizeTrigger: !q.SizeTrigger,
		FlushInterval:      q.FlushInterval,
		Strategy:           q.Strategy,
		PoolSize:           q.PoolSize,
		Overflow:           q.Overflow.Policy,
		OverflowTimeout:    q.Overflow.Timeout,
		Failure:            q.Failure.Policy,
		Retry: dispatcher.Config{
			Attempts:     q.Failure.RetryAttempts,
			StartTimeout: q.Failure.RetryTimeout,
			Multiply:     q.Failure.RetryMultiplier,
		},
		DeadLetterSize: q.Failure.DeadLetterSize,
	}
}
