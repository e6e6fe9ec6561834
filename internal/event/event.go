package event

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// TimestampLayout — формат времени события: миллисекунды и смещение без двоеточия.
const TimestampLayout = "2006-01-02T15:04:05.000-0700"

// SensorEvent — показание датчика, привязанное к statement.
// StatementName используется только для группировки и в JSON события не попадает.
type SensorEvent struct {
	StatementName string  `json:"-"`
	SID           string  `json:"SID"`
	Timestamp     string  `json:"timestamp"`
	Value         float64 `json:"value"`
}

// NewSensorEvent создает событие с временем в TimestampLayout.
func NewSensorEvent(statement, sid string, value float64, at time.Time) SensorEvent {
	return SensorEvent{
		StatementName: statement,
		SID:           sid,
		Timestamp:     at.UTC().Format(TimestampLayout),
		Value:         value,
	}
}

// Time разбирает Timestamp.
func (e *SensorEvent) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, e.Timestamp)
}

func (e *SensorEvent) Bytes() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		zap.L().Error(err.Error())
	}
	return b
}

func (e *SensorEvent) String() string {
	return string(e.Bytes())
}

// Validate проверяет, что событие можно отправлять получателю.
func (e *SensorEvent) Validate() error {
	if e.StatementName == "" {
		return ErrEmptyStatement
	}
	if e.SID == "" {
		return ErrEmptySID
	}
	if _, err := e.Time(); err != nil {
		return ErrInvalidTimestamp
	}
	return nil
}
