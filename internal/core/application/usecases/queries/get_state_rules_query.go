package queries

import (
	"errors"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/guard"
)

var (
	ErrGetStateRulesQueryIsNotConstructed = errors.New(
		"GetStateRulesQuery must be created via NewGetStateRulesQuery constructor",
	)
)

// GetStateRulesQuery lists the states an order must have visited before it
// may enter a target state.
type GetStateRulesQuery struct {
	target lifecycle.State

	guard guard.ConstructorGuard
}

func NewGetStateRulesQuery(target lifecycle.State) (GetStateRulesQuery, error) {
	if err := target.Validate(); err != nil {
		return GetStateRulesQuery{}, err
	}
	return GetStateRulesQuery{target: target, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStateRulesQuery) Validate() error {
	return q.guard.Validate(ErrGetStateRulesQueryIsNotConstructed)
}

func (q GetStateRulesQuery) Target() lifecycle.State {
	return q.target
}

type StateResponse struct {
	ID   int
	Name string
}

// GetStateRulesQueryResponse holds the target and its prerequisites ordered by id.
// A free state has no prerequisites.
type GetStateRulesQueryResponse struct {
	Target   StateResponse
	Required []StateResponse
}
