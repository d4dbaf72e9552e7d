package ports

import (
	"context"

	"ordertracking/internal/core/domain/model/lifecycle"
)

type RuleRepository interface {
	// Add returns a ConflictError if the rule already exists.
	Add(ctx context.Context, rule lifecycle.Rule) error

	// Delete returns an ObjectNotFoundError if the rule does not exist.
	Delete(ctx context.Context, rule lifecycle.Rule) error

	// GetAll loads the whole prerequisite graph.
	GetAll(ctx context.Context) (lifecycle.Rules, error)

	// GetByTarget loads the rules whose target is state.
	GetByTarget(ctx context.Context, state lifecycle.State) (lifecycle.Rules, error)
}
