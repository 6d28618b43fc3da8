package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"snaplink/internal/bookings/service"
	"snaplink/pkg/logger"
)

type countingCleaner struct {
	calls int
	err   error
}

func (c *countingCleaner) CleanupExpired(context.Context) (service.CleanupReport, error) {
	c.calls++
	return service.CleanupReport{Ran: true, Expired: 1}, c.err
}

func newTestWorker(cleaner Cleaner, interval time.Duration) *CleanupWorker {
	return NewCleanupWorker(cleaner, asynq.RedisClientOpt{Addr: "localhost:6379"}, interval, nil, logger.Nop())
}

func TestCleanupWorker_ProcessesCleanupTask(t *testing.T) {
	cleaner := &countingCleaner{}
	w := newTestWorker(cleaner, time.Minute)

	if err := w.mux().ProcessTask(context.Background(), asynq.NewTask(TypeCleanupExpired, nil)); err != nil {
		t.Fatalf("ProcessTask() error = %v", err)
	}
	if cleaner.calls != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaner.calls)
	}
}

func TestCleanupWorker_FailedSweepIsNotRetried(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("redis unavailable")}
	w := newTestWorker(cleaner, time.Minute)

	err := w.mux().ProcessTask(context.Background(), asynq.NewTask(TypeCleanupExpired, nil))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("ProcessTask() error = %v, want it to wrap asynq.SkipRetry", err)
	}
}

func TestCleanupWorker_UnknownTaskType(t *testing.T) {
	cleaner := &countingCleaner{}
	w := newTestWorker(cleaner, time.Minute)

	if err := w.mux().ProcessTask(context.Background(), asynq.NewTask("bookings:unknown", nil)); err == nil {
		t.Error("ProcessTask() with an unknown type should fail")
	}
	if cleaner.calls != 0 {
		t.Errorf("cleanup ran %d times, want 0", cleaner.calls)
	}
}

func TestCleanupWorker_Schedule(t *testing.T) {
	tests := []struct {
		name         string
		interval     time.Duration
		wantSpec     string
		wantInterval time.Duration
		wantOptions  int
	}{
		{name: "default interval", interval: 0, wantSpec: "@every 1m0s", wantInterval: time.Minute, wantOptions: 4},
		{name: "configured interval", interval: 90 * time.Second, wantSpec: "@every 1m30s", wantInterval: 90 * time.Second, wantOptions: 4},
		{name: "sub-second interval skips uniqueness", interval: 500 * time.Millisecond, wantSpec: "@every 500ms", wantInterval: 500 * time.Millisecond, wantOptions: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorker(&countingCleaner{}, tt.interval)
			if w.interval != tt.wantInterval {
				t.Errorf("interval = %v, want %v", w.interval, tt.wantInterval)
			}
			if got := w.cronspec(); got != tt.wantSpec {
				t.Errorf("cronspec() = %q, want %q", got, tt.wantSpec)
			}
			if got := len(w.taskOptions()); got != tt.wantOptions {
				t.Errorf("len(taskOptions()) = %d, want %d", got, tt.wantOptions)
			}
		})
	}
}

func TestCleanupWorker_Name(t *testing.T) {
	w := newTestWorker(&countingCleaner{}, 0)
	if w.Name() == "" {
		t.Error("Name() is empty")
	}
	if w.location != time.UTC {
		t.Errorf("location = %v, want UTC by default", w.location)
	}
}
