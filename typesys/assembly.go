package typesys

import (
	"iter"
)

// Assembly is a unit of compilation. Internal members are visible only to
// code declared in the same assembly.
type Assembly struct {
	name    string
	model   *Model
	builtin bool

	// types holds every definition declared in the assembly, outer types
	// before their nested types.
	types []*Definition
}

// Name returns the assembly name.
func (a *Assembly) Name() string {
	return a.name
}

// Model returns the model the assembly belongs to.
func (a *Assembly) Model() *Model {
	return a.model
}

// IsBuiltin reports whether this is the predefined core assembly.
func (a *Assembly) IsBuiltin() bool {
	return a.builtin
}

// TypeCount returns the number of definitions, nested ones included.
func (a *Assembly) TypeCount() int {
	return len(a.types)
}

// Types returns an iterator over the definitions declared in this assembly.
func (a *Assembly) Types() iter.Seq[*Definition] {
	return func(yield func(*Definition) bool) {
		for _, t := range a.types {
			if !yield(t) {
				return
			}
		}
	}
}

// TopLevelTypes returns an iterator over definitions that are not nested.
func (a *Assembly) TopLevelTypes() iter.Seq[*Definition] {
	return func(yield func(*Definition) bool) {
		for _, t := range a.types {
			if t.declaringType != nil {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// TypeDefinition finds a definition of this assembly by reflection name.
func (a *Assembly) TypeDefinition(reflectionName string) (*Definition, bool) {
	def, ok := a.model.byReflectionName[reflectionName]
	if !ok || def.assembly != a {
		return nil, false
	}
	return def, true
}
