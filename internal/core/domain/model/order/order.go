package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"ordertracking/internal/core/domain/model/kernel"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/errs"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the delivery lifecycle. It owns the append-only
// movement history from which every state view is derived.
//
// Order follows these invariants:
//   - The identifier is the canonical 8-digit id taken from the ERP manifest
//   - A carrier is always assigned
//   - Movements are ordered by a gapless sequence starting at 1
//   - settled becomes true once a SETTLEMENT movement is recorded and never reverts
//   - A rating in [1, 5] can only be set after the order has visited DELIVERED
type Order struct {
	id        string
	carrierID int64
	createdAt time.Time
	settled   bool
	rating    *int

	// movements is sorted by sequence
	movements []*Movement

	isConstructed bool
}

// NewOrder creates an order with an empty history. The first movement is
// recorded separately with Record.
//
// Example:
//
//	o, err := order.NewOrder("00287573", carrierID, time.Now())
//	if err != nil {
//	    return err
//	}
//	_, err = o.Record(lifecycle.Ingest, lifecycle.Pending, systemOperatorID, time.Now())
func NewOrder(id string, carrierID int64, createdAt time.Time) (*Order, error) {
	o := &Order{
		createdAt:     createdAt,
		movements:     make([]*Movement, 0, 2),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCarrierID(carrierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from persistence. Movements may be
// passed in any order; they must belong to the order and form a gapless
// sequence.
func RestoreOrder(
	id string,
	carrierID int64,
	createdAt time.Time,
	settled bool,
	rating *int,
	movements []*Movement,
) (*Order, error) {
	o, err := NewOrder(id, carrierID, createdAt)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(movements)
	slices.SortFunc(sorted, func(a, b *Movement) int {
		return a.sequence - b.sequence
	})
	for i, m := range sorted {
		if err = m.Validate(); err != nil {
			return nil, err
		}
		if m.orderID != id {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"movement",
				fmt.Errorf("movement %s belongs to order %s", m.id, m.orderID),
			)
		}
		if m.sequence != i+1 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"movement",
				fmt.Errorf("sequence gap at %d in order %s", i+1, id),
			)
		}
	}
	o.movements = sorted
	o.settled = settled

	if rating != nil {
		if err = validateRating(*rating); err != nil {
			return nil, err
		}
		value := *rating
		o.rating = &value
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() string {
	return o.id
}

func (o *Order) CarrierID() int64 {
	return o.carrierID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) IsSettled() bool {
	return o.settled
}

// Rating returns nil when the order has not been rated.
func (o *Order) Rating() *int {
	if o.rating == nil {
		return nil
	}
	value := *o.rating
	return &value
}

// Movements returns the history ordered by sequence.
func (o *Order) Movements() []*Movement {
	return slices.Clone(o.movements)
}

// LatestMovement returns nil for an order without history.
func (o *Order) LatestMovement() *Movement {
	if len(o.movements) == 0 {
		return nil
	}
	return o.movements[len(o.movements)-1]
}

// LastState is the target of the most recent movement, SETTLEMENT included.
// It is lifecycle.Unknown for an order without history.
func (o *Order) LastState() lifecycle.State {
	if m := o.LatestMovement(); m != nil {
		return m.to
	}
	return lifecycle.Unknown
}

// LastOperationalState is the target of the most recent movement whose target
// is not SETTLEMENT. Settlement is a side channel and does not move the order
// along the operational flow.
func (o *Order) LastOperationalState() lifecycle.State {
	for i := len(o.movements) - 1; i >= 0; i-- {
		if o.movements[i].to.IsOperational() {
			return o.movements[i].to
		}
	}
	return lifecycle.Unknown
}

// LatestInto returns the most recent movement whose target is state, or nil.
func (o *Order) LatestInto(state lifecycle.State) *Movement {
	for i := len(o.movements) - 1; i >= 0; i-- {
		if o.movements[i].to == state {
			return o.movements[i]
		}
	}
	return nil
}

// VisitedStates returns the set of targets of every recorded movement.
func (o *Order) VisitedStates() map[lifecycle.State]struct{} {
	visited := make(map[lifecycle.State]struct{}, len(o.movements))
	for _, m := range o.movements {
		visited[m.to] = struct{}{}
	}
	return visited
}

// HasVisited reports whether any movement targeted state.
func (o *Order) HasVisited(state lifecycle.State) bool {
	_, ok := o.VisitedStates()[state]
	return ok
}

// CheckMove verifies that a requested transition is consistent with the history:
//   - from must be the current operational state, otherwise the caller is acting
//     on a stale view and a ConflictError is returned
//   - DELIVERED is terminal for the operational flow; only SETTLEMENT may follow
//   - an order is settled at most once
//
// Prerequisite rules and role permissions are checked elsewhere.
func (o *Order) CheckMove(from, to lifecycle.State) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}

	current := o.LastOperationalState()
	if from != current {
		return errs.NewConflictErrorWithCause(
			"order", o.id,
			fmt.Errorf("declared state %s does not match current state %s", from, current),
		)
	}
	if to == lifecycle.Settlement {
		if o.settled {
			return errs.NewConflictErrorWithCause("order", o.id, errors.New("order is already settled"))
		}
		return nil
	}
	if current == lifecycle.Delivered {
		return errs.NewConflictErrorWithCause("order", o.id, errors.New("order is already delivered"))
	}
	return nil
}

// Record appends a movement with the next sequence number. Recording a
// SETTLEMENT movement marks the order settled.
func (o *Order) Record(from, to lifecycle.State, operatorID int64, at time.Time) (*Movement, error) {
	if err := errors.Join(from.Validate(), to.Validate(), validateOperatorID(operatorID)); err != nil {
		return nil, err
	}
	if from == to {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"movement",
			fmt.Errorf("%s to %s is not a transition", from, to),
		)
	}

	m := &Movement{
		id:            kernel.NewUUID(),
		orderID:       o.id,
		sequence:      len(o.movements) + 1,
		from:          from,
		to:            to,
		operatorID:    operatorID,
		occurredAt:    at,
		isConstructed: true,
	}
	o.movements = append(o.movements, m)

	if to == lifecycle.Settlement {
		o.settled = true
	}

	return m, nil
}

// Rate sets the customer rating. The order must have been delivered.
func (o *Order) Rate(rating int) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	if !o.HasVisited(lifecycle.Delivered) {
		return errs.NewRuleViolationError("rating", []string{lifecycle.Delivered.String()})
	}
	o.rating = &rating
	return nil
}

func (o *Order) setID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCarrierID(carrierID int64) error {
	if carrierID <= 0 {
		return errs.NewValueIsRequiredErrorWithCause("carrier", fmt.Errorf("%d is not a carrier id", carrierID))
	}
	o.carrierID = carrierID
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	return nil
}
