package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"events-dispatcher/internal/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sensor struct {
	sid       string
	statement string
}

// EventGenerator создает синтетические показания датчиков.
// Listen запускает генерацию по тактам, Close ее останавливает.
type EventGenerator struct {
	mode        Mode
	invalidRate float64
	tick        time.Duration
	sensors     []sensor

	mu        sync.Mutex
	listeners []func(count int)

	out       chan Event
	stop      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

func NewEventGenerator() *EventGenerator {
	g := &EventGenerator{
		mode: defaultMode,
		tick: defaultTick,
		out:  make(chan Event),
		stop: make(chan struct{}),
	}
	g.SetSensors(defaultSensorCount)
	return g
}

func (g *EventGenerator) SetMode(value Mode) *EventGenerator {
	g.mode = value
	return g
}

// SetInvalidRate задает долю событий с заведомо некорректными полями.
func (g *EventGenerator) SetInvalidRate(value float64) *EventGenerator {
	g.invalidRate = value
	return g
}

func (g *EventGenerator) SetTick(value time.Duration) *EventGenerator {
	if value > 0 {
		g.tick = value
	}
	return g
}

// SetSensors создает count датчиков, распределенных по statement.
func (g *EventGenerator) SetSensors(count int) *EventGenerator {
	if count <= 0 {
		count = defaultSensorCount
	}

	g.sensors = make([]sensor, count)
	for i := range g.sensors {
		g.sensors[i] = sensor{
			sid:       uuid.NewString(),
			statement: fmt.Sprintf("statement_%d", i%defaultStatementCount),
		}
	}
	return g
}

// AddPostCreateEventsListener подписывает fn на число событий,
// отданных за каждый такт.
func (g *EventGenerator) AddPostCreateEventsListener(fn func(count int)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listeners = append(g.listeners, fn)
}

// Event создает одно событие случайного датчика.
func (g *EventGenerator) Event() Event {
	s := g.sensors[rand.IntN(len(g.sensors))]
	e := event.NewSensorEvent(s.statement, s.sid, valueBase+rand.NormFloat64()*valueSpread, time.Now())

	if rand.Float64() >= g.invalidRate {
		return Event{Event: e}
	}

	switch rand.IntN(3) {
	case 0:
		e.SID = ""
	case 1:
		e.Timestamp = "invalid"
	default:
		e.StatementName = ""
	}

	return Event{Event: e, Meta: Meta{IsInvalid: true}}
}

// Listen запускает генерацию при первом вызове и возвращает канал событий.
// Канал закрывается после Close.
func (g *EventGenerator) Listen() <-chan Event {
	g.startOnce.Do(func() {
		go g.loop()
	})
	return g.out
}

func (g *EventGenerator) Close() {
	g.closeOnce.Do(func() {
		close(g.stop)
	})
}

func (g *EventGenerator) loop() {
	defer close(g.out)

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	zap.L().Info("generator started",
		zap.String("mode", string(g.mode)),
		zap.Int("sensors", len(g.sensors)),
		zap.Duration("tick", g.tick),
	)

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
		}

		count := g.eventsPerTick()
		for sent := range count {
			select {
			case g.out <- g.Event():
			case <-g.stop:
				g.notify(sent)
				return
			}
		}
		g.notify(count)
	}
}

func (g *EventGenerator) notify(count int) {
	if count == 0 {
		return
	}

	g.mu.Lock()
	listeners := g.listeners
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(count)
	}
}

// eventsPerTick возвращает число событий текущего такта по режиму.
func (g *EventGenerator) eventsPerTick() int {
	switch g.mode {
	case PickLoadMode:
		return pickLoadMinEvents + rand.IntN(pickLoadMaxEvents-pickLoadMinEvents+1)
	case NightMode:
		return boolToInt(rand.Float64() < nightModeEventProb)
	default:
		return boolToInt(rand.Float64() < regularModeEventProb)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
