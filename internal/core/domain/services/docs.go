// Package services holds the domain services of the order lifecycle.
//
// The package includes:
//   - TransitionValidator: checks prerequisite rules against an order's history
//   - MovementPolicy: the role permission table, the preparation continuity rule
//     and the manual settlement rule
//
// Both are pure: they read aggregates and return an error describing the first
// failed check, leaving persistence to the command handlers.
package services
