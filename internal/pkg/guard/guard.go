// Package guard implements the constructor-guard pattern used by commands and
// value objects across the application. Embedding a ConstructorGuard in a struct
// makes zero-value instances detectable, so objects that bypassed their
// constructor (and therefore their validation) fail fast.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is
// provided for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks whether its enclosing object went through a
// constructor. The zero value reports not-constructed.
//
// Example:
//
//	type ApproveCmd struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func NewApproveCmd(id kernel.UUID) (ApproveCmd, error) {
//	    return ApproveCmd{id: id, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c ApproveCmd) Validate() error {
//	    return c.guard.Validate(ErrApproveCmdIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects. For zero values it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
