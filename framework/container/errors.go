package container

import (
	"errors"
	"strconv"
)

var (
	// ErrResolution is matched by every error the container and resolver
	// produce themselves. Errors matching it pass through factories and
	// extensions untouched instead of being wrapped again.
	ErrResolution = errors.New("resolution failed")

	// ErrNotFound is matched by *NotFoundError.
	ErrNotFound = errors.New("container: binding not found")

	// ErrConstruction is matched by *ConstructionError.
	ErrConstruction = errors.New("container: construction failed")

	// ErrNoInstantiator is returned when a TypeRef payload is evaluated by a
	// container that was built without an Instantiator.
	ErrNoInstantiator = errors.New("container: no instantiator configured")

	// ErrTypeMismatch is returned by Resolve when the bound value does not
	// have the requested type.
	ErrTypeMismatch = errors.New("container: type mismatch")
)

// NotFoundError is returned by Get, Raw and Extend when nothing is bound
// for Key.
type NotFoundError struct{ Key string }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	// Example: container: you haven't bound anything for "mailer"
	return "container: you haven't bound anything for " + strconv.Quote(e.Key)
}

// Is reports whether target is ErrNotFound or ErrResolution.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrResolution
}

// ConstructionError wraps a failure of the underlying construction or
// invocation capability: a factory returning an error, a type that cannot
// be instantiated, a constructor that reported failure.
type ConstructionError struct {
	Target string
	Err    error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return "container: constructing " + strconv.Quote(e.Target) + ": " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *ConstructionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConstruction or ErrResolution.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction || target == ErrResolution
}

// Construction wraps err in a *ConstructionError for target. Errors that
// already match ErrResolution are returned unchanged so nested failures keep
// their concrete type. A nil err yields nil.
func Construction(target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrResolution) {
		return err
	}
	return &ConstructionError{Target: target, Err: err}
}
