package order

import (
	"errors"
	"fmt"
	"time"

	"ordertracking/internal/core/domain/model/kernel"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/errs"
)

var ErrMovementIsNotConstructed = errors.New("Movement must be created via Order.Record or RestoreMovement")

// Movement is an immutable state transition of one order.
//
// Sequence starts at 1 and increases by one per movement of the same order; it
// defines the history order independently of clock resolution.
type Movement struct {
	id         kernel.UUID
	orderID    string
	sequence   int
	from       lifecycle.State
	to         lifecycle.State
	operatorID int64
	occurredAt time.Time

	isConstructed bool
}

// RestoreMovement rebuilds a persisted movement.
func RestoreMovement(
	id kernel.UUID,
	orderID string,
	sequence int,
	from, to lifecycle.State,
	operatorID int64,
	occurredAt time.Time,
) (*Movement, error) {
	if err := errors.Join(
		id.Validate(),
		ValidateID(orderID),
		validateSequence(sequence),
		from.Validate(),
		to.Validate(),
		validateOperatorID(operatorID),
	); err != nil {
		return nil, err
	}

	return &Movement{
		id:            id,
		orderID:       orderID,
		sequence:      sequence,
		from:          from,
		to:            to,
		operatorID:    operatorID,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

func (m *Movement) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMovementIsNotConstructed
	}
	return nil
}

func (m *Movement) ID() kernel.UUID {
	return m.id
}

func (m *Movement) OrderID() string {
	return m.orderID
}

func (m *Movement) Sequence() int {
	return m.sequence
}

func (m *Movement) From() lifecycle.State {
	return m.from
}

func (m *Movement) To() lifecycle.State {
	return m.to
}

func (m *Movement) OperatorID() int64 {
	return m.operatorID
}

func (m *Movement) OccurredAt() time.Time {
	return m.occurredAt
}

func validateSequence(sequence int) error {
	if sequence < 1 {
		return errs.NewValueIsInvalidErrorWithCause("sequence", fmt.Errorf("%d is not greater than 0", sequence))
	}
	return nil
}

func validateOperatorID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("operator id", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}
