package typesys

import (
	"fmt"

	"github.com/skdltmxn/lookup-go/internal/typeref"
)

// scope is the lexical position a type reference is written at.
type scope struct {
	def    *Definition
	method *Member

	// baseClause disables lookup of types nested in def itself, which are
	// not in scope while def's own base list is being resolved.
	baseClause bool
}

// implicitNamespaces are searched after the enclosing namespace.
var implicitNamespaces = []string{"", "System"}

type resolver struct {
	m *Model

	// prepare makes the base list of a definition available before it is
	// walked. It reports false when the bases are still being resolved.
	prepare func(*Definition) (bool, error)
}

func (r *resolver) ready(def *Definition) (bool, error) {
	if r.prepare == nil || def == nil {
		return true, nil
	}
	return r.prepare(def)
}

func (r *resolver) resolve(sc scope, q *typeref.QualifiedName) (Type, error) {
	first := q.Components[0]
	args, err := r.resolveArgs(sc, first.Args)
	if err != nil {
		return nil, err
	}
	cur, err := r.resolveSimple(sc, first.Name, args)
	if err != nil {
		return nil, err
	}

	rest := q.Components[1:]
	if cur == nil {
		// The leading components name a namespace.
		if len(first.Args) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, q)
		}
		ns := first.Name
		for len(rest) > 0 && cur == nil {
			seg := rest[0]
			rest = rest[1:]
			segArgs, err := r.resolveArgs(sc, seg.Args)
			if err != nil {
				return nil, err
			}
			if def := r.m.lookupGlobal(ns, seg.Name, len(segArgs)); def != nil {
				if cur, err = bind(def, segArgs); err != nil {
					return nil, err
				}
				break
			}
			if len(seg.Args) > 0 {
				break
			}
			ns += "." + seg.Name
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, q)
		}
	}

	for _, seg := range rest {
		segArgs, err := r.resolveArgs(sc, seg.Args)
		if err != nil {
			return nil, err
		}
		nested, ok, err := r.findNested(cur, seg.Name, segArgs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrTypeNotFound, seg, cur)
		}
		cur = nested
	}
	return cur, nil
}

func (r *resolver) resolveArgs(sc scope, refs []*typeref.QualifiedName) ([]Type, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	args := make([]Type, len(refs))
	for i, ref := range refs {
		t, err := r.resolve(sc, ref)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return args, nil
}

// resolveSimple resolves a single identifier. It returns nil without an
// error when the name does not denote a type, so the caller can treat it
// as a namespace.
func (r *resolver) resolveSimple(sc scope, name string, args []Type) (Type, error) {
	if len(args) == 0 && sc.method != nil {
		for _, tp := range sc.method.typeParameters {
			if tp.name == name {
				return tp, nil
			}
		}
	}

	for d := sc.def; d != nil; d = d.declaringType {
		if len(args) == 0 {
			for _, tp := range d.typeParameters {
				if tp.name == name {
					return tp, nil
				}
			}
		}
		if sc.baseClause && d == sc.def {
			continue
		}
		t, ok, err := r.findNested(d.SelfType(), name, args)
		if err != nil {
			return nil, err
		}
		if ok {
			return t, nil
		}
	}

	var namespaces []string
	if sc.def != nil {
		outermost := sc.def
		for outermost.declaringType != nil {
			outermost = outermost.declaringType
		}
		if outermost.namespace != "" {
			namespaces = append(namespaces, outermost.namespace)
		}
	}
	namespaces = append(namespaces, implicitNamespaces...)
	for _, ns := range namespaces {
		if def := r.m.lookupGlobal(ns, name, len(args)); def != nil {
			return bind(def, args)
		}
	}

	if len(args) == 0 {
		if def, ok := r.m.aliases[name]; ok {
			return def, nil
		}
	}
	return nil, nil
}

// findNested searches t and its base classes for a nested type. Outer
// arguments come from the level that declares the nested type.
func (r *resolver) findNested(t Type, name string, args []Type) (Type, bool, error) {
	for level := t; level != nil; level = BaseClass(level) {
		def := level.Definition()
		if def == nil {
			return nil, false, nil
		}
		if nested := def.NestedType(name, len(args)); nested != nil {
			t, err := bindNested(level, nested, args)
			if err != nil {
				return nil, false, err
			}
			return t, true, nil
		}
		ok, err := r.ready(def)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
	}
	return nil, false, nil
}

func bindNested(outer Type, nested *Definition, args []Type) (Type, error) {
	var outerArgs []Type
	switch o := outer.(type) {
	case *Parameterized:
		outerArgs = o.args
	case *Definition:
		for _, tp := range o.AllTypeParameters() {
			outerArgs = append(outerArgs, tp)
		}
	}
	if len(outerArgs)+len(args) == 0 {
		return nested, nil
	}
	all := make([]Type, 0, len(outerArgs)+len(args))
	all = append(all, outerArgs...)
	all = append(all, args...)
	return NewParameterized(nested, all)
}

func bind(def *Definition, args []Type) (Type, error) {
	if len(args) == 0 {
		return def, nil
	}
	return NewParameterized(def, args)
}
