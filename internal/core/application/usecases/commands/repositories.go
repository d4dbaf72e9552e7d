// Package commands contains the operations that change lifecycle state:
// recording movements, reconciling ERP sales, rating orders, switching carrier
// flags and editing prerequisite rules. Every handler validates its command,
// opens its own unit of work and commits once.
package commands

import (
	"context"

	"ordertracking/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CarrierRepoFactory interface {
		CarrierRepository() ports.CarrierRepository
	}

	OperatorRepoFactory interface {
		OperatorRepository() ports.OperatorRepository
	}

	RuleRepoFactory interface {
		RuleRepository() ports.RuleRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RuleUoW manages transactions for rule editing.
	RuleUoW interface {
		TxManager
		RuleRepoFactory
	}

	RuleUoWFactory interface {
		Create() RuleUoW
	}

	// UoW spans every repository. Movement creation, reconciliation and
	// carrier flag changes read and write across aggregates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   c, err := uow.CarrierRepository().Get(ctx, o.CarrierID())
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		CarrierRepoFactory
		OperatorRepoFactory
		RuleRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
