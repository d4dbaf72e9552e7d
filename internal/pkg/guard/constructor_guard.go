// Package guard detects value objects, commands and queries that were created
// as zero values instead of through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard when
// the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be built by a constructor.
//
// Example:
//
//	var ErrRateOrderCommandIsNotConstructed = errors.New("RateOrderCommand must be created via NewRateOrderCommand")
//
//	type RateOrderCommand struct {
//	    orderID string
//	    rating  int
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c RateOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero value it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
