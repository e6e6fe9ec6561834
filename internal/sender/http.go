package sender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"events-dispatcher/internal/event"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HTTPSender отправляет батч одним PUT-запросом с JSON-конвертом.
type HTTPSender struct {
	client   *http.Client
	url      string
	user     string
	password string
}

func NewHTTPSender(cfg HTTPConfig) *HTTPSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &HTTPSender{
		client:   &http.Client{Timeout: timeout},
		url:      cfg.URL,
		user:     cfg.User,
		password: cfg.Password,
	}
}

func (s *HTTPSender) Handle(ctx context.Context, batch []event.SensorEvent) error {
	if len(batch) == 0 {
		return nil
	}

	body, err := event.EncodeBatch(batch)
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.user != "" {
		req.SetBasicAuth(s.user, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().Error(err.Error(), zap.String("url", s.url))
		return errors.Wrap(err, "http put")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		zap.L().Error("target rejected batch",
			zap.String("url", s.url),
			zap.Int("status", resp.StatusCode),
			zap.Int("batch_size", len(batch)),
		)
		return errors.Wrapf(ErrUnexpectedStatus, "status %d", resp.StatusCode)
	}

	return nil
}

func (s *HTTPSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
