package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"events-dispatcher/internal/config"
	"events-dispatcher/internal/event"
	"events-dispatcher/internal/generator"
	"events-dispatcher/internal/lane"
	"events-dispatcher/internal/logger"
	"events-dispatcher/internal/meter"
	"events-dispatcher/internal/metrics"
	"events-dispatcher/internal/queue"
	"events-dispatcher/internal/sender"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	os.Exit(start(os.Args[1:]))
}

// start запускает диспетчер и возвращает код завершения процесса:
// ненулевой, если конфигурация не загрузилась или run завершился с ошибкой.
func start(args []string) int {
	fs := flag.NewFlagSet("dispatcher", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		zap.L().Error("config not loaded", zap.Error(err))
		return 1
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		zap.L().Error("logger not built", zap.Error(err))
		return 1
	}
	prev := zap.L()
	zap.ReplaceGlobals(log)
	defer func() {
		_ = log.Sync()
		_ = closeLog()
		zap.ReplaceGlobals(prev)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		zap.L().Error("dispatcher stopped with error", zap.Error(err))
		return 1
	}

	zap.L().Info("dispatcher stopped")
	return 0
}

func run(ctx context.Context, cfg *config.Config) error {
	opts := cfg.Queue.LaneOptions()
	opts.Meter = meter.NewLogMeter("outbound", cfg.Metrics.ThroughputEvery)

	m := metrics.NewMetrics()
	if cfg.Metrics.Enabled {
		observer, err := m.LaneObserver()
		if err != nil {
			return err
		}
		opts.Observer = observer
	}

	s, err := sender.New(cfg.Sender)
	if err != nil {
		return err
	}

	factory, err := lane.NewFactory[event.SensorEvent](opts)
	if err != nil {
		_ = s.Close()
		return err
	}

	var queueOpts []queue.Option
	if cfg.Queue.QueueCapacity > 0 {
		queueOpts = append(queueOpts, queue.WithCapacity(cfg.Queue.QueueCapacity))
	}

	q, err := queue.New[event.SensorEvent](factory, s, cfg.Queue.WorkerCount, cfg.Queue.BatchSize, queueOpts...)
	if err != nil {
		_ = factory.Close()
		_ = s.Close()
		return err
	}
	// фабрика закрывается после очереди: пул нужен линиям до их остановки
	defer factory.Close()

	mode, err := generator.ParseMode(cfg.Generator.Mode)
	if err != nil {
		_ = q.Close()
		return err
	}

	gen := generator.NewEventGenerator().
		SetMode(mode).
		SetInvalidRate(cfg.Generator.InvalidRate).
		SetSensors(cfg.Generator.Sensors).
		SetTick(cfg.Generator.Tick)

	if cfg.Metrics.Enabled {
		if err := m.CollectEventGenerator(gen); err != nil {
			_ = q.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		server := newMetricsServer(cfg.Metrics.Port, m)

		g.Go(func() error {
			zap.L().Info("metrics server started", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	for _, w := range q.Workers() {
		g.Go(func() error {
			drainDeadLetters(w.DeadLetters())
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		gen.Close()
		return nil
	})

	g.Go(func() error {
		pump(gen.Listen(), q)
		return q.Close()
	})

	return g.Wait()
}

func newMetricsServer(port int, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// pump передает корректные события генератора в очередь до закрытия генератора.
func pump(events <-chan generator.Event, q *queue.Queue[event.SensorEvent]) {
	for ev := range events {
		if err := ev.Event.Validate(); err != nil {
			zap.L().Debug("invalid event skipped", zap.Error(err))
			continue
		}

		if err := q.AddMessage(ev.Event); err != nil {
			zap.L().Debug("event not queued", zap.String("sid", ev.Event.SID), zap.Error(err))
		}
	}
}

// drainDeadLetters пишет в лог батчи, не доставленные при политике dead_letter.
// Канал линии закрывается при ее остановке.
func drainDeadLetters(letters <-chan lane.DeadLetter[event.SensorEvent]) {
	for dl := range letters {
		zap.L().Error("dead letter",
			zap.Int("lane", dl.Lane),
			zap.Int("batch_size", len(dl.Batch)),
			zap.Error(dl.Err),
		)
	}
}
