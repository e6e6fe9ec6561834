package generator

import "time"

type Mode string

// Режим генерации по умолчанию
const defaultMode Mode = RegularMode

// Режимы генерации событий
const (
	RegularMode  Mode = "regular" // Постоянный поток событий
	PickLoadMode Mode = "pick"    // Пиковая нагрузка
	NightMode    Mode = "night"   // Ночные редкие события
)

// Вероятности генерации события на один такт для разных режимов
const (
	regularModeEventProb = 0.1
	pickLoadMinEvents    = 5
	pickLoadMaxEvents    = 50
	nightModeEventProb   = 0.01
)

const (
	defaultTick           = 10 * time.Millisecond
	defaultSensorCount    = 10
	defaultStatementCount = 3

	valueBase   = 20.0
	valueSpread = 5.0
)

// ParseMode проверяет имя режима.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case RegularMode, PickLoadMode, NightMode:
		return m, nil
	case "":
		return defaultMode, nil
	default:
		return "", ErrInvalidMode
	}
}
