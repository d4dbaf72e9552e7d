// Package ports defines the contracts between the lifecycle core and its
// infrastructure: repositories, the unit of work, the ERP sales source and the
// alert sink.
package ports

import (
	"context"

	"ordertracking/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their movement history.
// Movements are append-only: Add and Update insert movements not yet stored and
// never rewrite existing ones.
type OrderRepository interface {
	// Add persists a new order and its movements.
	// Returns a ConflictError if an order with the same id already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changed order fields and appends new movements.
	// Returns a ConflictError if another transaction appended a movement with
	// the same sequence first.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its full history.
	// Returns an ObjectNotFoundError if the order does not exist.
	Get(ctx context.Context, id string) (*order.Order, error)

	// FindExisting loads, in bulk, the orders among ids that already exist,
	// keyed by id. Missing ids are simply absent from the result.
	//
	// Example:
	//   existing, err := repo.FindExisting(ctx, []string{"00287573", "00287574"})
	//   if _, ok := existing["00287573"]; !ok {
	//       // create it
	//   }
	FindExisting(ctx context.Context, ids []string) (map[string]*order.Order, error)

	// ListUnsettledByCarrier returns every order of the carrier not yet settled.
	ListUnsettledByCarrier(ctx context.Context, carrierID int64) ([]*order.Order, error)

	// DeleteByCarrier removes every movement and order of the carrier and
	// returns how many rows of each were deleted.
	DeleteByCarrier(ctx context.Context, carrierID int64) (orders int64, movements int64, err error)
}
