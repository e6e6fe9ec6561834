package sender

import "time"

// Type задает вид получателя батчей.
type Type string

const (
	LogType       Type = "log"
	KafkaType     Type = "kafka"
	RedisType     Type = "redis"
	HTTPType      Type = "http"
	WebSocketType Type = "websocket"
)

const (
	defaultHTTPTimeout  = 5 * time.Second
	defaultMinReconnect = time.Second
	defaultMaxReconnect = 30 * time.Minute
	defaultStreamMaxLen = 100_000
)

type Config struct {
	Type      Type            `yaml:"type" env:"TYPE"`
	Kafka     KafkaConfig     `yaml:"kafka" env:"KAFKA"`
	Redis     RedisConfig     `yaml:"redis" env:"REDIS"`
	HTTP      HTTPConfig      `yaml:"http" env:"HTTP"`
	WebSocket WebSocketConfig `yaml:"websocket" env:"WEBSOCKET"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"BROKERS"`
	Topic   string   `yaml:"topic" env:"TOPIC"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Stream   string `yaml:"stream" env:"STREAM"`
	MaxLen   int64  `yaml:"max_len" env:"MAX_LEN"`
}

type HTTPConfig struct {
	URL      string        `yaml:"url" env:"URL"`
	User     string        `yaml:"user" env:"USER"`
	Password string        `yaml:"password" env:"PASSWORD"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type WebSocketConfig struct {
	URL          string        `yaml:"url" env:"URL"`
	User         string        `yaml:"user" env:"USER"`
	Password     string        `yaml:"password" env:"PASSWORD"`
	MinReconnect time.Duration `yaml:"min_reconnect" env:"MIN_RECONNECT"`
	MaxReconnect time.Duration `yaml:"max_reconnect" env:"MAX_RECONNECT"`
}
