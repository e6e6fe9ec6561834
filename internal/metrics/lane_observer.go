package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// LaneObserver пишет события линий очереди в prometheus.
// Все серии помечены номером линии.
type LaneObserver struct {
	delivered  *prometheus.CounterVec
	failed     *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	overflowed *prometheus.CounterVec
	buffered   *prometheus.GaugeVec
	batchSize  prometheus.Histogram
	handleTime prometheus.Histogram
}

// LaneObserver регистрирует метрики линий в реестре.
func (m *Metrics) LaneObserver() (*LaneObserver, error) {
	o := &LaneObserver{
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_delivered_total",
			Help:      "Messages handled successfully.",
		}, []string{"lane"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_failed_total",
			Help:      "Messages in batches the handler failed on.",
		}, []string{"lane"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages discarded by overflow or failure policy.",
		}, []string{"lane"}),
		overflowed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overflow_rejections_total",
			Help:      "Messages rejected because the lane buffer was full.",
		}, []string{"lane"}),
		buffered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lane_buffered_messages",
			Help:      "Messages waiting in the lane buffer.",
		}, []string{"lane"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Size of delivered batches.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		handleTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_handle_seconds",
			Help:      "Time spent in the handler per delivered batch.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		o.delivered, o.failed, o.dropped, o.overflowed, o.buffered, o.batchSize, o.handleTime,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			zap.L().Error(err.Error())
			return nil, err
		}
	}

	return o, nil
}

func (o *LaneObserver) Delivered(lane, size int, took time.Duration) {
	o.delivered.WithLabelValues(label(lane)).Add(float64(size))
	o.batchSize.Observe(float64(size))
	o.handleTime.Observe(took.Seconds())
}

func (o *LaneObserver) Failed(lane, size int) {
	o.failed.WithLabelValues(label(lane)).Add(float64(size))
}

func (o *LaneObserver) Dropped(lane, count int) {
	o.dropped.WithLabelValues(label(lane)).Add(float64(count))
}

func (o *LaneObserver) Overflowed(lane int) {
	o.overflowed.WithLabelValues(label(lane)).Inc()
}

func (o *LaneObserver) Buffered(lane, size int) {
	o.buffered.WithLabelValues(label(lane)).Set(float64(size))
}

func label(lane int) string {
	return strconv.Itoa(lane)
}
