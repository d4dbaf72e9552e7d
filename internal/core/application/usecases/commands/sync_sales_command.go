package commands

import (
	"errors"
	"time"

	"ordertracking/internal/pkg/errs"
	"ordertracking/internal/pkg/guard"
)

var ErrSyncSalesCommandIsNotConstructed = errors.New(
	"SyncSalesCommand must be created via NewSyncSalesCommand constructor",
)

// SyncSalesCommand reconciles the ERP sales of one calendar day.
//
// Example:
//
//	cmd, _ := NewSyncSalesCommand(time.Now().AddDate(0, 0, -1))
//	report, err := handler.Handle(ctx, cmd)
type SyncSalesCommand struct { //nolint:recvcheck //using for validation
	date time.Time

	guard guard.ConstructorGuard
}

// NewSyncSalesCommand keeps only the calendar day of date, in date's location.
func NewSyncSalesCommand(date time.Time) (SyncSalesCommand, error) {
	if date.IsZero() {
		return SyncSalesCommand{}, errs.NewValueIsRequiredError("date")
	}
	year, month, day := date.Date()
	return SyncSalesCommand{
		date:  time.Date(year, month, day, 0, 0, 0, 0, date.Location()),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c SyncSalesCommand) Validate() error {
	return c.guard.Validate(ErrSyncSalesCommandIsNotConstructed)
}

func (c SyncSalesCommand) Date() time.Time {
	return c.date
}
