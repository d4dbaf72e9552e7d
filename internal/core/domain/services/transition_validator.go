package services

import (
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"
)

// TransitionValidator decides whether an order may enter a state given the
// prerequisite rules. The decision is derived from the movement history only,
// so operators and reconciliation share it.
//
// Example:
//
//	validator := services.NewTransitionValidator()
//	if err := validator.Validate(o, lifecycle.InPreparation, lifecycle.Prepared, rules); err != nil {
//	    var violation *errs.RuleViolationError
//	    if errors.As(err, &violation) {
//	        fmt.Println(violation.Missing) // [IN_PREPARATION]
//	    }
//	}
type TransitionValidator struct{}

func NewTransitionValidator() TransitionValidator {
	return TransitionValidator{}
}

// Validate returns nil when every state required for to is in the visited set,
// which is from plus the target of every recorded movement. Otherwise it
// returns a RuleViolationError listing the missing states by identifier order.
func (TransitionValidator) Validate(o *order.Order, from, to lifecycle.State, rules lifecycle.Rules) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	required := rules.RequiredFor(to)
	if len(required) == 0 {
		return nil
	}

	visited := o.VisitedStates()
	visited[from] = struct{}{}

	missing := make([]string, 0, len(required))
	for _, state := range required {
		if _, ok := visited[state]; !ok {
			missing = append(missing, state.String())
		}
	}
	if len(missing) > 0 {
		return errs.NewRuleViolationError(to.String(), missing)
	}
	return nil
}
