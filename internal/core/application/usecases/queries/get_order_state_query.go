// Package queries contains the read side of the service. Handlers run plain
// SQL against the database and return read models shaped for the HTTP layer.
package queries

import (
	"errors"
	"time"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/guard"
)

var (
	ErrGetOrderStateQueryIsNotConstructed = errors.New(
		"GetOrderStateQuery must be created via NewGetOrderStateQuery constructor",
	)
)

// GetOrderStateQuery reads the current position of an order in the lifecycle.
//
// Example:
//
//	query, err := NewGetOrderStateQuery("0001-00287573")
//	if err != nil {
//	    return err
//	}
//	state, err := handler.Handle(ctx, query)
//	fmt.Println(state.LastOperationalState) // PREPARED
type GetOrderStateQuery struct {
	orderID string

	guard guard.ConstructorGuard
}

// NewGetOrderStateQuery accepts a canonical id or a full manifest.
func NewGetOrderStateQuery(orderID string) (GetOrderStateQuery, error) {
	id, err := order.ParseReference(orderID)
	if err != nil {
		return GetOrderStateQuery{}, err
	}
	return GetOrderStateQuery{orderID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStateQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStateQueryIsNotConstructed)
}

func (q GetOrderStateQuery) OrderID() string {
	return q.orderID
}

// GetOrderStateQueryResponse is the state read model of an order.
// LastState includes SETTLEMENT; LastOperationalState never does.
// Both are lifecycle.Unknown and LastMovementAt is nil for an order without history.
type GetOrderStateQueryResponse struct {
	OrderID              string
	CarrierID            int64
	LastState            lifecycle.State
	LastOperationalState lifecycle.State
	LastMovementAt       *time.Time
	Settled              bool
	Rating               *int
}
