// Package lifecycle defines the fixed set of order states and the prerequisite
// rules between them.
//
// States are seeded once and never change. Rules form a directed acyclic graph:
// a rule (Target, Required) means an order must have visited Required before it
// may enter Target, and several rules on one target are a conjunction. A state
// with no rules can be entered from anywhere, subject to role checks performed
// by the movement service.
package lifecycle
