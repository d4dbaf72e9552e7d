package ports

import (
	"context"
	"time"

	"ordertracking/internal/core/domain/model/sales"
)

// SalesSource is the ERP sales feed.
//
// Implementations cache the session obtained by Login and re-authenticate once
// when a lot request is rejected as unauthorized, retrying that request once.
// Failures are returned as errs.ExternalServiceError; network failures are
// marked transient.
type SalesSource interface {
	Login(ctx context.Context) error

	// FetchSalesLot returns lot number lot (starting at 1) of the sales of date.
	FetchSalesLot(ctx context.Context, date time.Time, lot int) (sales.Lot, error)
}
