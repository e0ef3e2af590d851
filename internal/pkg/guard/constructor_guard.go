// Package guard implements the constructor-guard pattern used by domain objects
// to detect zero-value instances that bypassed their designated constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is provided for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and entities are only created through
// their designated constructor functions. Embedding a ConstructorGuard in a struct
// makes it possible to distinguish a properly constructed instance from a zero value.
//
// Example usage:
//
//	var ErrOfferNotConstructed = errors.New("Offer must be created via NewOffer")
//
//	type Offer struct {
//	    workerID kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewOffer(workerID kernel.UUID) (Offer, error) {
//	    if err := workerID.Validate(); err != nil {
//	        return Offer{}, err
//	    }
//	    return Offer{workerID: workerID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (o Offer) Validate() error {
//	    return o.guard.Validate(ErrOfferNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks an object as properly constructed.
// Call it inside the constructor of the guarded domain object.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate reports whether the guarded object was created through its constructor.
// Returns nil for constructed objects, the provided validationError otherwise,
// or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
