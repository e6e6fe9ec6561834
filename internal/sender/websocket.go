package sender

import (
	"context"
	"net/http"
	"sync"
	"time"

	"events-dispatcher/internal/event"

	"github.com/coder/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const skipLogPeriod = 5 * time.Second

// WebSocketSender держит одно соединение и пишет каждый батч
// одним текстовым фреймом. Пока соединения нет, батчи отклоняются
// с ErrNotConnected, а переподключение идет в фоне с удвоением паузы.
type WebSocketSender struct {
	url          string
	header       http.Header
	minReconnect time.Duration
	maxReconnect time.Duration

	mu   sync.RWMutex
	conn *websocket.Conn

	skipLog rate.Sometimes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWebSocketSender(cfg WebSocketConfig) *WebSocketSender {
	minReconnect := cfg.MinReconnect
	if minReconnect <= 0 {
		minReconnect = defaultMinReconnect
	}
	maxReconnect := cfg.MaxReconnect
	if maxReconnect < minReconnect {
		maxReconnect = max(minReconnect, defaultMaxReconnect)
	}

	header := http.Header{}
	if cfg.User != "" {
		req := &http.Request{Header: header}
		req.SetBasicAuth(cfg.User, cfg.Password)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &WebSocketSender{
		url:          cfg.URL,
		header:       header,
		minReconnect: minReconnect,
		maxReconnect: maxReconnect,
		skipLog:      rate.Sometimes{Interval: skipLogPeriod},
		ctx:          ctx,
		cancel:       cancel,
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Connected сообщает, есть ли сейчас открытое соединение.
func (s *WebSocketSender) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.conn != nil
}

func (s *WebSocketSender) Handle(ctx context.Context, batch []event.SensorEvent) error {
	if len(batch) == 0 {
		return nil
	}

	if s.ctx.Err() != nil {
		return ErrSenderClosed
	}

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		s.skipLog.Do(func() {
			zap.L().Warn("websocket not connected, batch skipped",
				zap.String("url", s.url),
				zap.Int("batch_size", len(batch)),
			)
		})
		return ErrNotConnected
	}

	payload, err := event.EncodeBatch(batch)
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		zap.L().Error(err.Error(), zap.String("url", s.url))
		// закрытие соединения будит run, и тот переподключается
		_ = conn.Close(websocket.StatusInternalError, "write failed")
		return errors.Wrap(err, "websocket write")
	}

	return nil
}

// Close останавливает переподключение и закрывает текущее соединение.
func (s *WebSocketSender) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *WebSocketSender) run() {
	defer s.wg.Done()

	delay := s.minReconnect

	for {
		conn, _, err := websocket.Dial(s.ctx, s.url, &websocket.DialOptions{HTTPHeader: s.header})
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}

			zap.L().Warn("websocket connect failed",
				zap.String("url", s.url),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)

			select {
			case <-s.ctx.Done():
				return
			case <-time.After(delay):
			}

			delay = min(2*delay, s.maxReconnect)
			continue
		}

		delay = s.minReconnect
		zap.L().Info("websocket connected", zap.String("url", s.url))

		closed := conn.CloseRead(s.ctx)
		s.setConn(conn)

		<-closed.Done()
		s.setConn(nil)

		if s.ctx.Err() != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "sender closed")
			return
		}

		zap.L().Warn("websocket disconnected", zap.String("url", s.url))
		_ = conn.CloseNow()
	}
}

func (s *WebSocketSender) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn = conn
}
