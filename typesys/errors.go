// Package typesys provides the type model consumed by member lookup: type
// definitions, parameterized types, type parameters, members, substitution
// and base-chain iteration.
package typesys

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrTypeNotFound indicates a type name did not resolve.
	ErrTypeNotFound = errors.New("typesys: type not found")

	// ErrTypeArgumentCount indicates a generic type was given the wrong
	// number of type arguments.
	ErrTypeArgumentCount = errors.New("typesys: wrong number of type arguments")

	// ErrCyclicInheritance indicates a type appears in its own base chain.
	ErrCyclicInheritance = errors.New("typesys: cyclic inheritance")

	// ErrInvalidBase indicates a base type list that the type kind does not
	// allow (a struct deriving from a class, two base classes, ...).
	ErrInvalidBase = errors.New("typesys: invalid base type")

	// ErrDuplicateType indicates two definitions with the same reflection name.
	ErrDuplicateType = errors.New("typesys: duplicate type")

	// ErrAssemblyNotFound indicates an unknown assembly name.
	ErrAssemblyNotFound = errors.New("typesys: assembly not found")
)

// LoadError provides detailed information about model loading failures.
type LoadError struct {
	Assembly string // Assembly being loaded
	Type     string // Reflection name of the type
	Member   string // Member name, if the failure is inside a member
	Message  string // Description of the error
	Err      error  // Underlying error, if any
}

func (e *LoadError) Error() string {
	loc := e.Type
	if e.Member != "" {
		loc += "." + e.Member
	}
	if e.Err != nil {
		return fmt.Sprintf("typesys: load error in %s (%s): %s: %v",
			e.Assembly, loc, e.Message, e.Err)
	}
	return fmt.Sprintf("typesys: load error in %s (%s): %s",
		e.Assembly, loc, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }
