package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Checker runs one notification scan.
type Checker interface {
	Check(ctx context.Context) int
}

// NotificationWorker runs the periodic dedup scan.
type NotificationWorker struct {
	checker      Checker
	initialDelay time.Duration
	interval     time.Duration
	logger       *zap.Logger
}

// NewNotificationWorker builds a worker. A non-positive interval disables the ticker.
func NewNotificationWorker(checker Checker, initialDelay, interval time.Duration, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{checker: checker, initialDelay: initialDelay, interval: interval, logger: logger}
}

// Start launches the worker and returns a channel closed once it has stopped.
func (w *NotificationWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

// Run blocks until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	if w.checker == nil {
		return
	}
	first := time.NewTimer(w.initialDelay)
	defer first.Stop()

	select {
	case <-ctx.Done():
		return
	case <-first.C:
		w.scan(ctx)
	}

	if w.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("notification worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *NotificationWorker) scan(ctx context.Context) {
	if created := w.checker.Check(ctx); created > 0 {
		w.logger.Debug("scan produced alerts", zap.Int("count", created))
	}
}
