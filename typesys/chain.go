package typesys

import (
	"iter"

	"github.com/hashicorp/go-set/v3"
)

// DirectBaseTypes returns the declared base types of t with the bindings of
// t applied. A type parameter's only base is Object.
func DirectBaseTypes(t Type) []Type {
	if tp, ok := t.(*TypeParameter); ok {
		if obj := tp.object(); obj != nil {
			return []Type{obj}
		}
		return nil
	}

	def := t.Definition()
	if def == nil || len(def.baseTypes) == 0 {
		return nil
	}

	s := SubstitutionOf(t)
	bases := make([]Type, len(def.baseTypes))
	for i, b := range def.baseTypes {
		bases[i] = s.Apply(b)
	}
	return bases
}

// BaseClass returns the substituted base class of t, or nil for Object and
// interfaces.
func BaseClass(t Type) Type {
	for _, b := range DirectBaseTypes(t) {
		if b.Kind() != TypeKindInterface {
			return b
		}
	}
	return nil
}

// BaseChain returns an iterator over t and its base classes, most derived
// first. Each element carries the bindings in effect at that level.
func BaseChain(t Type) iter.Seq[Type] {
	return func(yield func(Type) bool) {
		for cur := t; cur != nil; cur = BaseClass(cur) {
			if !yield(cur) {
				return
			}
		}
	}
}

// Supertypes returns an iterator over t and every type it derives from,
// base classes and interfaces alike, in breadth-first order. t comes first
// and each type is produced once.
func Supertypes(t Type) iter.Seq[Type] {
	return func(yield func(Type) bool) {
		seen := set.New[string](8)
		queue := []Type{t}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if !seen.Insert(cur.ReflectionName()) {
				continue
			}
			if !yield(cur) {
				return
			}
			queue = append(queue, DirectBaseTypes(cur)...)
		}
	}
}

func (t *TypeParameter) object() *Definition {
	if t.owner == nil || t.owner.assembly == nil || t.owner.assembly.model == nil {
		return nil
	}
	return t.owner.assembly.model.object
}
