package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"events-dispatcher/internal/generator"
	"events-dispatcher/internal/sender"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Loader собирает конфигурацию: значения по умолчанию, затем YAML-файл,
// затем переменные окружения с префиксом.
type Loader struct {
	configPath string
	envPrefix  string
}

func NewLoader() *Loader {
	return &Loader{
		envPrefix: EnvPrefix,
	}
}

func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load загружает и проверяет конфигурацию.
// Отсутствующий файл не ошибка: остаются значения по умолчанию.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, errors.Wrap(err, "load config file")
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, errors.Wrap(err, "load config env")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// setFieldsFromEnv обходит структуру по тегам env.
// Имя переменной складывается из префикса и тегов вложенных полей через "_".
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := range v.NumField() {
		field := v.Field(i)

		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}

		key := prefix + "_" + tag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, key); err != nil {
				return err
			}
			continue
		}

		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return errors.Wrapf(err, "env %s", key)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}

		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// Validate проверяет значения, которые нельзя молча исправить.
func (c *Config) Validate() error {
	if c.Queue.BatchSize < 1 {
		return ErrInvalidBatchSize
	}
	if c.Queue.WorkerCount < 1 {
		return ErrInvalidWorkerCount
	}
	if c.Queue.QueueCapacity < 0 {
		return ErrInvalidCapacity
	}
	if err := c.Queue.LaneOptions().Validate(); err != nil {
		return errors.Wrap(err, "queue")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return ErrInvalidPort
	}

	if c.Generator.InvalidRate < 0 || c.Generator.InvalidRate > 1 {
		return ErrInvalidRate
	}
	if _, err := generator.ParseMode(c.Generator.Mode); err != nil {
		return errors.Wrap(err, "generator")
	}

	return c.validateSender()
}

func (c *Config) validateSender() error {
	s := c.Sender

	switch s.Type {
	case sender.LogType, "":
	case sender.KafkaType:
		if len(s.Kafka.Brokers) == 0 || s.Kafka.Topic == "" {
			return errors.Wrap(ErrInvalidSender, "kafka needs brokers and topic")
		}
	case sender.RedisType:
		if s.Redis.Addr == "" || s.Redis.Stream == "" {
			return errors.Wrap(ErrInvalidSender, "redis needs addr and stream")
		}
	case sender.HTTPType:
		if s.HTTP.URL == "" {
			return errors.Wrap(ErrInvalidSender, "http needs url")
		}
	case sender.WebSocketType:
		if s.WebSocket.URL == "" {
			return errors.Wrap(ErrInvalidSender, "websocket needs url")
		}
	default:
		return errors.Wrapf(sender.ErrUnknownType, "type %q", s.Type)
	}

	return nil
}
