package ports

import (
	"context"

	"ordertracking/internal/core/domain/model/carrier"
)

// CarrierRepository persists carriers keyed by their ERP identifier.
type CarrierRepository interface {
	Add(ctx context.Context, aggregate *carrier.Carrier) error

	Update(ctx context.Context, aggregate *carrier.Carrier) error

	// Get returns an ObjectNotFoundError if the carrier is unknown.
	Get(ctx context.Context, id int64) (*carrier.Carrier, error)

	// GetAll loads every carrier in one query, ordered by id.
	GetAll(ctx context.Context) ([]*carrier.Carrier, error)
}
