package lifecycle

import (
	"errors"
	"fmt"

	"ordertracking/internal/pkg/errs"
	"ordertracking/internal/pkg/guard"
)

var ErrRuleIsNotConstructed = errors.New("Rule must be created via NewRule constructor")

// Rule is a prerequisite edge: an order may enter Target only after it has
// visited Required. Rules are identified by the (Target, Required) pair.
type Rule struct {
	target   State
	required State

	guard guard.ConstructorGuard
}

// NewRule validates both states and rejects self-referencing rules.
//
// Example:
//
//	rule, err := lifecycle.NewRule(lifecycle.Prepared, lifecycle.InPreparation)
func NewRule(target, required State) (Rule, error) {
	if err := errors.Join(target.Validate(), required.Validate()); err != nil {
		return Rule{}, err
	}
	if target == required {
		return Rule{}, errs.NewValueIsInvalidErrorWithCause(
			"rule",
			fmt.Errorf("%s cannot require itself", target),
		)
	}

	return Rule{
		target:   target,
		required: required,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (r Rule) Validate() error {
	return r.guard.Validate(ErrRuleIsNotConstructed)
}

func (r Rule) Target() State {
	return r.target
}

func (r Rule) Required() State {
	return r.required
}

func (r Rule) IsEqual(other Rule) bool {
	return r.target == other.target && r.required == other.required
}

func (r Rule) String() string {
	return fmt.Sprintf("%s requires %s", r.target, r.required)
}
