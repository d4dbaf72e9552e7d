package services

import (
	"fmt"
	"slices"

	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/operator"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"
)

type edge struct {
	from lifecycle.State
	to   lifecycle.State
}

// roleScope lists what a role may do. An unrestricted scope allows any transition.
type roleScope struct {
	unrestricted bool
	targets      []lifecycle.State
	edges        []edge
	denial       string
}

func (s roleScope) allows(from, to lifecycle.State) bool {
	if s.unrestricted {
		return true
	}
	return slices.Contains(s.targets, to) || slices.Contains(s.edges, edge{from: from, to: to})
}

// MovementPolicy enforces who may record which transition.
//
// Role table:
//
//	SYSTEM, ADMIN  any transition
//	PREPARATION    into IN_PREPARATION or PREPARED
//	DISPATCH       exactly PREPARED -> DELIVERED
//
// On top of the table, SETTLEMENT may be entered by hand only by privileged
// roles and only for carriers with manual settlement, and a preparation
// operator may only finish (PREPARED) an order they started themselves unless a
// privileged operator started it.
type MovementPolicy struct {
	scopes map[operator.Role]roleScope
}

func NewMovementPolicy() MovementPolicy {
	return MovementPolicy{
		scopes: map[operator.Role]roleScope{
			operator.System: {unrestricted: true},
			operator.Admin:  {unrestricted: true},
			operator.Preparation: {
				targets: []lifecycle.State{lifecycle.InPreparation, lifecycle.Prepared},
				denial:  "may only move orders into IN_PREPARATION or PREPARED",
			},
			operator.Dispatch: {
				edges:  []edge{{from: lifecycle.Prepared, to: lifecycle.Delivered}},
				denial: "may only move orders from PREPARED to DELIVERED",
			},
		},
	}
}

// Authorize checks the role table for the requested transition.
func (p MovementPolicy) Authorize(op *operator.Operator, from, to lifecycle.State) error {
	scope, ok := p.scopes[op.Role()]
	if !ok {
		return errs.NewPermissionDeniedError(op.Role().String(), "may not record movements")
	}
	if !scope.allows(from, to) {
		return errs.NewPermissionDeniedError(op.Role().String(), scope.denial)
	}
	if to == lifecycle.Settlement && !op.Role().IsPrivileged() {
		return errs.NewPermissionDeniedError(op.Role().String(), "only privileged roles may enter SETTLEMENT")
	}
	return nil
}

// AuthorizeSettlement rejects manual settlement for carriers settled from ERP data.
func (p MovementPolicy) AuthorizeSettlement(op *operator.Operator, c *carrier.Carrier, to lifecycle.State) error {
	if to != lifecycle.Settlement {
		return nil
	}
	if !c.HasManualSettlement() {
		return errs.NewPermissionDeniedError(
			op.Role().String(),
			fmt.Sprintf("carrier %d is settled automatically", c.ID()),
		)
	}
	return nil
}

// PreviousPreparer returns the id of the operator whose preparation op must
// continue, or 0 when the continuity rule does not apply: op is not a
// preparation operator, the target is not PREPARED, the order has no
// PENDING -> IN_PREPARATION movement, or op started the preparation itself.
// Re-entries into IN_PREPARATION from later states do not change who started it.
func (p MovementPolicy) PreviousPreparer(op *operator.Operator, o *order.Order, to lifecycle.State) int64 {
	if op.Role() != operator.Preparation || to != lifecycle.Prepared {
		return 0
	}
	started := latestPreparationStart(o)
	if started == nil || started.OperatorID() == op.ID() {
		return 0
	}
	return started.OperatorID()
}

// CheckContinuity allows op to finish a preparation started by previous only
// when previous holds a privileged role. previous may be nil if it no longer exists.
func (p MovementPolicy) CheckContinuity(op, previous *operator.Operator) error {
	if previous != nil && previous.Role().IsPrivileged() {
		return nil
	}
	name := "an unknown operator"
	if previous != nil {
		name = previous.Name()
	}
	return errs.NewPermissionDeniedError(
		op.Role().String(),
		fmt.Sprintf("preparation was started by %s and must be finished by the same operator", name),
	)
}

func latestPreparationStart(o *order.Order) *order.Movement {
	movements := o.Movements()
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		if m.From() == lifecycle.Pending && m.To() == lifecycle.InPreparation {
			return m
		}
	}
	return nil
}
