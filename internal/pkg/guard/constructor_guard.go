// Package guard marks values that were built by their constructor so that zero values
// of domain types can be told apart from real ones.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects, commands and queries. Its zero value
// fails validation; NewConstructorGuard produces one that passes.
//
// Example:
//
//	type Point struct {
//	    lat, lon float64
//	    guard    guard.ConstructorGuard
//	}
//
//	func (p Point) Validate() error {
//	    return p.guard.Validate(ErrPointIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that validates successfully.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil) if the
// guarded value was not created by its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
