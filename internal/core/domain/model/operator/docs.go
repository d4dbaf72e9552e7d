// Package operator provides the Operator entity and its roles.
//
// Operators authenticate movements with a short credential code. Lookup is a
// linear scan of active operators in ascending id order with a bcrypt compare
// per candidate; the first match wins.
package operator
