package ports

import (
	"context"

	"ordertracking/internal/core/domain/model/operator"
)

type OperatorRepository interface {
	Add(ctx context.Context, aggregate *operator.Operator) error

	// Get returns an ObjectNotFoundError if the operator is unknown.
	Get(ctx context.Context, id int64) (*operator.Operator, error)

	// ListActiveByRoles returns active operators holding one of roles, ordered
	// by ascending id. The order is the credential tie-break.
	ListActiveByRoles(ctx context.Context, roles ...operator.Role) ([]*operator.Operator, error)
}
