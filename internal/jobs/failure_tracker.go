package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ordertracking/internal/core/ports"
	"ordertracking/internal/pkg/errs"
)

const (
	DefaultFailureThreshold = 3

	alertTimeout = 15 * time.Second
)

// FailureTracker classifies run errors and counts consecutive failures.
type FailureTracker struct {
	name      string
	threshold int
	alerts    ports.AlertSink
	onFatal   func(err error)
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	failures int
}

// NewFailureTracker creates a tracker that alerts through sink once
// threshold consecutive failures are reached. onFatal is called for storage
// errors; it must not block.
func NewFailureTracker(
	name string,
	threshold int,
	alerts ports.AlertSink,
	onFatal func(err error),
	logger *slog.Logger,
) *FailureTracker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	return &FailureTracker{
		name:      name,
		threshold: threshold,
		alerts:    alerts,
		onFatal:   onFatal,
		logger:    logger.With("component", "failure_tracker", "job", name),
		now:       time.Now,
	}
}

// Observe records the outcome of a run. A nil error is a success.
func (t *FailureTracker) Observe(ctx context.Context, runErr error) {
	if runErr == nil {
		t.mu.Lock()
		t.failures = 0
		t.mu.Unlock()
		return
	}

	var external *errs.ExternalServiceError
	if errors.As(runErr, &external) && external.Transient {
		t.logger.WarnContext(ctx, "Transient ERP failure, retrying on next tick", "error", runErr)
		return
	}

	if errors.Is(runErr, errs.ErrStorage) {
		t.logger.ErrorContext(ctx, "Storage failure, stopping scheduler", "error", runErr)
		if t.onFatal != nil {
			t.onFatal(runErr)
		}
		return
	}

	t.mu.Lock()
	t.failures++
	failures := t.failures
	t.mu.Unlock()

	t.logger.ErrorContext(ctx, "Sales sync failed", "error", runErr, "consecutive_failures", failures)

	if failures >= t.threshold {
		t.alert(ctx, failures, runErr)
	}
}

// Failures returns the current consecutive failure count.
func (t *FailureTracker) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

func (t *FailureTracker) alert(ctx context.Context, failures int, runErr error) {
	if t.alerts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancel()

	err := t.alerts.Send(ctx, ports.Alert{
		Title:        "Consecutive failures in sales sync (" + t.name + ")",
		Message:      runErr.Error(),
		FailureCount: failures,
		OccurredAt:   t.now(),
	})
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to deliver alert", "error", err)
	}
}
