package commands

import (
	"errors"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/guard"
)

var ErrDeleteRuleCommandIsNotConstructed = errors.New(
	"DeleteRuleCommand must be created via NewDeleteRuleCommand constructor",
)

// DeleteRuleCommand removes the rule identified by its two states.
type DeleteRuleCommand struct { //nolint:recvcheck //using for validation
	rule lifecycle.Rule

	guard guard.ConstructorGuard
}

func NewDeleteRuleCommand(target, required lifecycle.State) (DeleteRuleCommand, error) {
	rule, err := lifecycle.NewRule(target, required)
	if err != nil {
		return DeleteRuleCommand{}, err
	}
	return DeleteRuleCommand{
		rule:  rule,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteRuleCommand) Validate() error {
	return c.guard.Validate(ErrDeleteRuleCommandIsNotConstructed)
}

func (c DeleteRuleCommand) Rule() lifecycle.Rule {
	return c.rule
}
