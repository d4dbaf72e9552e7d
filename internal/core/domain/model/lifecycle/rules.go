package lifecycle

import (
	"fmt"
	"slices"

	"ordertracking/internal/pkg/errs"
)

// Rules is the prerequisite graph over states. It is kept acyclic: a rule that
// would let a state transitively require itself is rejected.
//
// The zero value is an empty, usable graph.
type Rules struct {
	requires map[State][]State
}

// NewRules builds a graph from stored rules, applying the same checks as Add.
func NewRules(rules ...Rule) (Rules, error) {
	var graph Rules
	for _, rule := range rules {
		if err := graph.Add(rule); err != nil {
			return Rules{}, err
		}
	}
	return graph, nil
}

// Add inserts a rule. It returns a ConflictError for a duplicate edge and a
// RuleViolationError when the edge would close a cycle.
func (r *Rules) Add(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if r.requires == nil {
		r.requires = make(map[State][]State)
	}

	if slices.Contains(r.requires[rule.target], rule.required) {
		return errs.NewConflictError("rule", rule.String())
	}
	if r.reaches(rule.required, rule.target) {
		return errs.NewRuleViolationErrorWithCause(
			rule.target.String(),
			fmt.Errorf("rule %q would create a cycle", rule),
		)
	}

	r.requires[rule.target] = append(r.requires[rule.target], rule.required)
	slices.Sort(r.requires[rule.target])
	return nil
}

// Remove deletes a rule and reports whether it was present.
func (r *Rules) Remove(rule Rule) bool {
	required := r.requires[rule.target]
	idx := slices.Index(required, rule.required)
	if idx < 0 {
		return false
	}
	r.requires[rule.target] = slices.Delete(required, idx, idx+1)
	return true
}

// RequiredFor returns the states that must be visited before entering target,
// ordered by state identifier. An empty result means target is freely enterable.
func (r Rules) RequiredFor(target State) []State {
	return slices.Clone(r.requires[target])
}

// All returns every rule ordered by target, then by required state.
func (r Rules) All() []Rule {
	out := make([]Rule, 0)
	for _, target := range AllStates() {
		for _, required := range r.requires[target] {
			rule, err := NewRule(target, required)
			if err != nil {
				continue
			}
			out = append(out, rule)
		}
	}
	return out
}

func (r Rules) Len() int {
	n := 0
	for _, required := range r.requires {
		n += len(required)
	}
	return n
}

// reaches reports whether from transitively requires to.
func (r Rules) reaches(from, to State) bool {
	seen := make(map[State]bool)
	stack := []State{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == to {
			return true
		}
		if seen[current] {
			continue
		}
		seen[current] = true
		stack = append(stack, r.requires[current]...)
	}
	return false
}
