package ports

import (
	"context"
	"time"
)

// Alert is an operational notification about the reconciliation scheduler.
type Alert struct {
	Title        string
	Message      string
	FailureCount int
	OccurredAt   time.Time
}

// AlertSink delivers alerts to an outbound channel. Callers log delivery
// failures and carry on.
type AlertSink interface {
	Send(ctx context.Context, alert Alert) error
}
