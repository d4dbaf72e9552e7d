package commands

import (
	"time"
)

// SyncItemError is a reconciliation failure of a single order. It never
// aborts the run.
type SyncItemError struct {
	OrderID string
	Err     error
}

func (e SyncItemError) Error() string {
	return "order " + e.OrderID + ": " + e.Err.Error()
}

// SyncReport summarizes one reconciliation run.
type SyncReport struct {
	Date time.Time

	Lots     int
	Fetched  int
	Accepted int

	MalformedManifests int
	CarriersCreated    int
	CarriersUpdated    int
	DroppedUntracked   int
	DuplicatesRemoved  int

	OrdersCreated              int
	OrdersSettled              int
	MovementsCreated           int
	SettlementMovementsCreated int

	Errors []SyncItemError

	Duration time.Duration
}

// ErrorMessages returns the per-order failures as strings.
func (r SyncReport) ErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Error())
	}
	return messages
}
