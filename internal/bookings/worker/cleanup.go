package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"snaplink/internal/bookings/service"
	"snaplink/pkg/logger"
)

const (
	TypeCleanupExpired = "bookings:cleanup_expired"

	cleanupQueue = "maintenance"
)

type Cleaner interface {
	CleanupExpired(ctx context.Context) (service.CleanupReport, error)
}

// CleanupWorker enqueues a periodic sweep of expired Pending bookings through
// asynq and processes it. Every replica runs one; the task is unique per
// interval and the shared cooldown keeps sweeps from piling up.
type CleanupWorker struct {
	cleaner  Cleaner
	redis    asynq.RedisConnOpt
	interval time.Duration
	location *time.Location
	log      *logger.Logger
}

func NewCleanupWorker(cleaner Cleaner, redis asynq.RedisConnOpt, interval time.Duration, location *time.Location, log *logger.Logger) *CleanupWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if location == nil {
		location = time.UTC
	}
	return &CleanupWorker{
		cleaner:  cleaner,
		redis:    redis,
		interval: interval,
		location: location,
		log:      log.WithComponent("cleanup_worker"),
	}
}

func (w *CleanupWorker) Name() string {
	return "expired_booking_cleanup"
}

func (w *CleanupWorker) Start(ctx context.Context) error {
	scheduler := asynq.NewScheduler(w.redis, &asynq.SchedulerOpts{
		Location: w.location,
		Logger:   asynqLogger{w.log},
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				w.log.Warn("cleanup task not enqueued", "error", err)
			}
		},
	})
	if _, err := scheduler.Register(w.cronspec(), asynq.NewTask(TypeCleanupExpired, nil), w.taskOptions()...); err != nil {
		return fmt.Errorf("register cleanup task: %w", err)
	}

	server := asynq.NewServer(w.redis, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{cleanupQueue: 1},
		Logger:      asynqLogger{w.log},
	})

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start cleanup scheduler: %w", err)
	}
	defer scheduler.Shutdown()

	if err := server.Start(w.mux()); err != nil {
		return fmt.Errorf("start cleanup server: %w", err)
	}
	defer server.Shutdown()

	w.log.Info("cleanup worker started", "interval", w.interval, "queue", cleanupQueue)
	<-ctx.Done()
	w.log.Info("cleanup worker stopped")
	return ctx.Err()
}

func (w *CleanupWorker) cronspec() string {
	return "@every " + w.interval.String()
}

func (w *CleanupWorker) taskOptions() []asynq.Option {
	opts := []asynq.Option{
		asynq.Queue(cleanupQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(w.interval),
	}
	// Unique needs at least a second of TTL.
	if w.interval >= time.Second {
		opts = append(opts, asynq.Unique(w.interval))
	}
	return opts
}

func (w *CleanupWorker) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCleanupExpired, w.handleCleanup)
	return mux
}

// A failed sweep is not retried; the next tick runs it again.
func (w *CleanupWorker) handleCleanup(ctx context.Context, _ *asynq.Task) error {
	report, err := w.cleaner.CleanupExpired(ctx)
	if err != nil {
		w.log.Error("expired booking cleanup failed", "error", err)
		return fmt.Errorf("cleanup expired bookings: %v: %w", err, asynq.SkipRetry)
	}
	if report.Ran && report.Expired > 0 {
		w.log.Info("expired bookings cleaned up", "expired", report.Expired, "failed", report.Failed)
	}
	return nil
}

type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal(fmt.Sprint(args...)) }
