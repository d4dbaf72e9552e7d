package queries

import (
	"errors"

	"ordertracking/internal/pkg/guard"
)

var (
	ErrGetAllCarriersQueryIsNotConstructed = errors.New(
		"GetAllCarriersQuery must be created via NewGetAllCarriersQuery constructor",
	)
)

// GetAllCarriersQuery lists every carrier seen in the ERP feed with its flags.
type GetAllCarriersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllCarriersQuery() GetAllCarriersQuery {
	return GetAllCarriersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAllCarriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCarriersQueryIsNotConstructed)
}

type GetAllCarriersQueryResponse struct {
	ID               int64
	Name             string
	Tracking         bool
	ManualSettlement bool
}
