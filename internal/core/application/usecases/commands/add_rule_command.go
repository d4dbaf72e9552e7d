package commands

import (
	"errors"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/guard"
)

var ErrAddRuleCommandIsNotConstructed = errors.New(
	"AddRuleCommand must be created via NewAddRuleCommand constructor",
)

// AddRuleCommand makes required a prerequisite of target.
type AddRuleCommand struct { //nolint:recvcheck //using for validation
	rule lifecycle.Rule

	guard guard.ConstructorGuard
}

func NewAddRuleCommand(target, required lifecycle.State) (AddRuleCommand, error) {
	rule, err := lifecycle.NewRule(target, required)
	if err != nil {
		return AddRuleCommand{}, err
	}
	return AddRuleCommand{
		rule:  rule,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c AddRuleCommand) Validate() error {
	return c.guard.Validate(ErrAddRuleCommandIsNotConstructed)
}

func (c AddRuleCommand) Rule() lifecycle.Rule {
	return c.rule
}
