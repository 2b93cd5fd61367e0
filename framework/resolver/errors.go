package resolver

import (
	"errors"
	"strconv"
	"strings"

	"github.com/km-arc/go-syringe/framework/container"
)

var (
	// ErrUnresolvable is matched by *UnresolvableParameterError.
	ErrUnresolvable = errors.New("resolver: unresolvable parameter")

	// ErrCyclicDependency is matched by *CyclicDependencyError.
	ErrCyclicDependency = errors.New("resolver: cyclic dependency")
)

// UnresolvableParameterError is returned when every strategy was exhausted
// for a parameter and the resolver does not default to the zero value.
type UnresolvableParameterError struct {
	Param  string
	Type   string
	Target string
}

// Error implements the error interface.
func (e *UnresolvableParameterError) Error() string {
	// Example: resolver: unable to resolve parameter "store" (app.Store) of app.Mailer
	return "resolver: unable to resolve parameter " + strconv.Quote(e.Param) +
		" (" + e.Type + ") of " + e.Target
}

// Is reports whether target is ErrUnresolvable or container.ErrResolution.
func (e *UnresolvableParameterError) Is(target error) bool {
	return target == ErrUnresolvable || target == container.ErrResolution
}

// CyclicDependencyError is returned when a type is requested again while it
// is still being constructed. Chain lists the in-flight targets, ending with
// the repeated one.
type CyclicDependencyError struct {
	Chain []string
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return "resolver: cyclic dependency: " + strings.Join(e.Chain, " -> ")
}

// Is reports whether target is ErrCyclicDependency or container.ErrResolution.
func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency || target == container.ErrResolution
}
