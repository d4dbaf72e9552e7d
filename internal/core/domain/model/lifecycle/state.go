package lifecycle

import (
	"strconv"
	"strings"

	"ordertracking/internal/pkg/errs"
)

// State is a node of the order lifecycle graph. The numeric values are the
// identifiers stored in the states table and must never be renumbered.
//
//	INGEST ──> PENDING ──> IN_PREPARATION ──> PREPARED ──> DELIVERED
//	                 \____________ SETTLEMENT (side channel) ____/
type State int

const (
	// Unknown is the zero value and is never a valid state.
	Unknown State = iota

	// Ingest is the origin of the first movement of every order created by reconciliation.
	Ingest

	// Pending orders are known to the system and wait for preparation.
	Pending

	// InPreparation orders are being picked in the preparation sector.
	InPreparation

	// Prepared orders are ready for dispatch.
	Prepared

	// Settlement records the financial closing of an order. It is orthogonal to
	// the operational flow and does not change the operational state.
	Settlement

	// Delivered is the terminal operational state.
	Delivered
)

var stateNames = map[State]string{
	Ingest:        "INGEST",
	Pending:       "PENDING",
	InPreparation: "IN_PREPARATION",
	Prepared:      "PREPARED",
	Settlement:    "SETTLEMENT",
	Delivered:     "DELIVERED",
}

// AllStates returns the fixed state universe ordered by identifier.
func AllStates() []State {
	return []State{Ingest, Pending, InPreparation, Prepared, Settlement, Delivered}
}

// ParseState accepts either the numeric identifier or the state name.
func ParseState(raw string) (State, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.Atoi(raw); err == nil {
		s := State(id)
		return s, s.Validate()
	}
	upper := strings.ToUpper(raw)
	for s, name := range stateNames {
		if name == upper {
			return s, nil
		}
	}
	return Unknown, errs.NewObjectNotFoundError("state", raw)
}

// Validate returns an ObjectNotFoundError for identifiers outside the universe.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewObjectNotFoundError("state", strconv.Itoa(int(s)))
	}
	return nil
}

// ID returns the persisted identifier.
func (s State) ID() int {
	return int(s)
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsOperational reports whether the state belongs to the operational flow,
// i.e. every valid state except Settlement.
func (s State) IsOperational() bool {
	return s != Settlement && s.Validate() == nil
}
