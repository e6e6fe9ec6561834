package generator

import "events-dispatcher/internal/event"

type Event struct {
	Event event.SensorEvent
	Meta  Meta
}

type Meta struct {
	IsInvalid bool
}
