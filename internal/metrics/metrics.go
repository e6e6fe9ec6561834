package metrics

import (
	"net/http"

	"events-dispatcher/internal/generator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "dispatcher"

type Metrics struct {
	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	return &Metrics{
		registry: prometheus.NewRegistry(),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry отдает реестр, например для проверок в тестах.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CollectEventGenerator считает события, созданные генератором.
func (m *Metrics) CollectEventGenerator(gen *generator.EventGenerator) error {
	eventCount := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_generated_total",
			Help:      "Sensor events produced by the generator.",
		},
	)

	if err := m.registry.Register(eventCount); err != nil {
		zap.L().Error(err.Error())
		return err
	}

	gen.AddPostCreateEventsListener(func(count int) {
		eventCount.Add(float64(count))
	})

	return nil
}
