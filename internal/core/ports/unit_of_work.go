package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per request or reconciliation item
// so that concurrent operations never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over every repository.
// Repositories obtained before Begin run outside the transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	CarrierRepository() CarrierRepository

	OperatorRepository() OperatorRepository

	RuleRepository() RuleRepository
}
