package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"events-dispatcher/internal/generator"
	"events-dispatcher/internal/lane"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ lane.Observer = (*LaneObserver)(nil)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestLaneObserver_Exposition(t *testing.T) {
	m := NewMetrics()

	o, err := m.LaneObserver()
	require.NoError(t, err)

	o.Delivered(0, 10, 20*time.Millisecond)
	o.Delivered(1, 5, time.Millisecond)
	o.Failed(1, 3)
	o.Dropped(1, 3)
	o.Overflowed(2)
	o.Buffered(2, 42)

	body := scrape(t, m)

	assert.Contains(t, body, `dispatcher_messages_delivered_total{lane="0"} 10`)
	assert.Contains(t, body, `dispatcher_messages_delivered_total{lane="1"} 5`)
	assert.Contains(t, body, `dispatcher_messages_failed_total{lane="1"} 3`)
	assert.Contains(t, body, `dispatcher_messages_dropped_total{lane="1"} 3`)
	assert.Contains(t, body, `dispatcher_overflow_rejections_total{lane="2"} 1`)
	assert.Contains(t, body, `dispatcher_lane_buffered_messages{lane="2"} 42`)
	assert.Contains(t, body, `dispatcher_batch_size_count 2`)
	assert.Contains(t, body, `dispatcher_batch_handle_seconds_count 2`)
}

func TestLaneObserver_DoubleRegistration(t *testing.T) {
	m := NewMetrics()

	_, err := m.LaneObserver()
	require.NoError(t, err)

	_, err = m.LaneObserver()
	assert.Error(t, err)
}

func TestCollectEventGenerator(t *testing.T) {
	m := NewMetrics()
	g := generator.NewEventGenerator().SetMode(generator.PickLoadMode).SetTick(time.Millisecond)

	require.NoError(t, m.CollectEventGenerator(g))
	assert.Error(t, m.CollectEventGenerator(g))

	events := g.Listen()
	for range 10 {
		<-events
	}
	g.Close()
	for range events {
	}

	assert.Contains(t, scrape(t, m), "dispatcher_events_generated_total")
}
