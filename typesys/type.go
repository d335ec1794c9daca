package typesys

import (
	"fmt"
	"iter"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// TypeKind identifies the category of a type.
type TypeKind uint8

const (
	TypeKindUnknown TypeKind = iota
	TypeKindClass
	TypeKindStruct
	TypeKindInterface
	TypeKindEnum
	TypeKindDelegate
	TypeKindTypeParameter
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindClass:
		return "class"
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindEnum:
		return "enum"
	case TypeKindDelegate:
		return "delegate"
	case TypeKindTypeParameter:
		return "type_parameter"
	default:
		return "unknown"
	}
}

// Type is implemented by *Definition, *Parameterized and *TypeParameter.
type Type interface {
	// Kind returns the type kind.
	Kind() TypeKind

	// Name returns the short name without namespace or type arguments.
	Name() string

	// FullName returns the namespace-qualified name without arity or
	// type arguments ("Ns.Outer.Inner").
	FullName() string

	// ReflectionName returns the unique reflection-style name, e.g.
	// "Base`1[[System.Int32]]".
	ReflectionName() string

	// Definition returns the underlying type definition, or nil for type
	// parameters.
	Definition() *Definition

	// String returns a source-like rendering ("A<System.Int32>.B").
	String() string

	substitute(s Substitution) Type
}

// Definition is a declared class, struct, interface, enum or delegate.
// A generic definition used without arguments denotes the open type.
type Definition struct {
	namespace     string
	name          string
	kind          TypeKind
	accessibility Accessibility
	assembly      *Assembly
	declaringType *Definition

	// typeParameters holds the type's own parameters; parameters of outer
	// types are reachable through declaringType.
	typeParameters []*TypeParameter

	// baseTypes holds the resolved base class (if any) followed by
	// interfaces. Object is explicit for classes and structs.
	baseTypes []Type

	members       []*Member
	membersByName map[string][]*Member
	nestedTypes   []*Definition
}

func (d *Definition) Kind() TypeKind                { return d.kind }
func (d *Definition) Name() string                  { return d.name }
func (d *Definition) Namespace() string             { return d.namespace }
func (d *Definition) Accessibility() Accessibility  { return d.accessibility }
func (d *Definition) Assembly() *Assembly           { return d.assembly }
func (d *Definition) DeclaringType() *Definition    { return d.declaringType }
func (d *Definition) Definition() *Definition       { return d }
func (d *Definition) TypeParameters() []*TypeParameter { return d.typeParameters }
func (d *Definition) BaseTypes() []Type             { return d.baseTypes }
func (d *Definition) NestedTypes() []*Definition    { return d.nestedTypes }
func (d *Definition) IsInterface() bool             { return d.kind == TypeKindInterface }

func (d *Definition) substitute(Substitution) Type { return d }

// FullName returns "Ns.Outer.Inner".
func (d *Definition) FullName() string {
	if d.declaringType != nil {
		return d.declaringType.FullName() + "." + d.name
	}
	if d.namespace != "" {
		return d.namespace + "." + d.name
	}
	return d.name
}

// ReflectionName returns "Ns.Outer`1+Inner".
func (d *Definition) ReflectionName() string {
	own := d.name
	if n := len(d.typeParameters); n > 0 {
		own = fmt.Sprintf("%s`%d", own, n)
	}
	if d.declaringType != nil {
		return d.declaringType.ReflectionName() + "+" + own
	}
	if d.namespace != "" {
		return d.namespace + "." + own
	}
	return own
}

func (d *Definition) String() string {
	params := d.AllTypeParameters()
	args := make([]Type, len(params))
	for i, tp := range params {
		args[i] = tp
	}
	return display(d, args)
}

// AllTypeParameters returns the parameters of all lexically enclosing types
// followed by the type's own parameters.
func (d *Definition) AllTypeParameters() []*TypeParameter {
	if d.declaringType == nil {
		return d.typeParameters
	}
	outer := d.declaringType.AllTypeParameters()
	if len(outer) == 0 {
		return d.typeParameters
	}
	all := make([]*TypeParameter, 0, len(outer)+len(d.typeParameters))
	all = append(all, outer...)
	return append(all, d.typeParameters...)
}

// SelfType returns the type of "this" inside the definition: the
// definition itself, or the definition applied to its own parameters.
func (d *Definition) SelfType() Type {
	params := d.AllTypeParameters()
	if len(params) == 0 {
		return d
	}
	args := make([]Type, len(params))
	for i, tp := range params {
		args[i] = tp
	}
	return &Parameterized{def: d, args: args}
}

// Members returns an iterator over the declared members in declaration order.
func (d *Definition) Members() iter.Seq[*Member] {
	return func(yield func(*Member) bool) {
		for _, m := range d.members {
			if !yield(m) {
				return
			}
		}
	}
}

// MemberCount returns the number of declared members.
func (d *Definition) MemberCount() int { return len(d.members) }

// MembersNamed returns the declared (not inherited) members with the given
// name, in declaration order.
func (d *Definition) MembersNamed(name string) []*Member {
	return d.membersByName[name]
}

// NestedType returns the directly nested type with the given name and own
// arity, or nil.
func (d *Definition) NestedType(name string, arity int) *Definition {
	for _, n := range d.nestedTypes {
		if n.name == name && len(n.typeParameters) == arity {
			return n
		}
	}
	return nil
}

// IsNestedIn reports whether d is outer or lexically nested in outer.
func (d *Definition) IsNestedIn(outer *Definition) bool {
	for t := d; t != nil; t = t.declaringType {
		if t == outer {
			return true
		}
	}
	return false
}

// IsDerivedFrom reports whether d is base or inherits from it, directly or
// through any base class or interface.
func (d *Definition) IsDerivedFrom(base *Definition) bool {
	if d == nil || base == nil {
		return false
	}
	if d == base {
		return true
	}

	visited := set.New[*Definition](8)
	queue := []*Definition{d}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == base {
			return true
		}
		if !visited.Insert(cur) {
			continue
		}
		for _, b := range cur.baseTypes {
			if bd := b.Definition(); bd != nil {
				queue = append(queue, bd)
			}
		}
	}
	return false
}

func (d *Definition) addMember(m *Member) {
	d.members = append(d.members, m)
	if d.membersByName == nil {
		d.membersByName = make(map[string][]*Member)
	}
	d.membersByName[m.name] = append(d.membersByName[m.name], m)
}

// Parameterized is a generic definition bound to type arguments. The
// arguments cover the parameters of all enclosing types followed by the
// definition's own, so A<int>.B is B bound to [int].
type Parameterized struct {
	def  *Definition
	args []Type
}

// NewParameterized binds def to args.
func NewParameterized(def *Definition, args []Type) (*Parameterized, error) {
	if want := len(def.AllTypeParameters()); want != len(args) || want == 0 {
		return nil, fmt.Errorf("%w: %s expects %d, got %d",
			ErrTypeArgumentCount, def.ReflectionName(), want, len(args))
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%w: argument %d of %s is nil",
				ErrTypeArgumentCount, i, def.ReflectionName())
		}
	}
	return &Parameterized{def: def, args: append([]Type(nil), args...)}, nil
}

func (p *Parameterized) Kind() TypeKind          { return p.def.kind }
func (p *Parameterized) Name() string            { return p.def.name }
func (p *Parameterized) FullName() string        { return p.def.FullName() }
func (p *Parameterized) Definition() *Definition { return p.def }
func (p *Parameterized) String() string          { return display(p.def, p.args) }

// TypeArguments returns the bound arguments, outer ones first.
func (p *Parameterized) TypeArguments() []Type { return p.args }

func (p *Parameterized) ReflectionName() string {
	parts := make([]string, len(p.args))
	for i, a := range p.args {
		parts[i] = a.ReflectionName()
	}
	return p.def.ReflectionName() + "[[" + strings.Join(parts, "],[") + "]]"
}

func (p *Parameterized) substitute(s Substitution) Type {
	changed := false
	args := make([]Type, len(p.args))
	for i, a := range p.args {
		args[i] = a.substitute(s)
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return p
	}
	return &Parameterized{def: p.def, args: args}
}

// TypeParameter is a generic parameter of a type or of a method.
type TypeParameter struct {
	name  string
	index int

	// owner is the declaring type; method is set for method type
	// parameters.
	owner  *Definition
	method *Member
}

func (t *TypeParameter) Kind() TypeKind          { return TypeKindTypeParameter }
func (t *TypeParameter) Name() string            { return t.name }
func (t *TypeParameter) FullName() string        { return t.name }
func (t *TypeParameter) String() string          { return t.name }
func (t *TypeParameter) Definition() *Definition { return nil }
func (t *TypeParameter) Owner() *Definition      { return t.owner }
func (t *TypeParameter) Method() *Member         { return t.method }

// Index returns the position in the owner's AllTypeParameters, or in the
// method's type parameter list.
func (t *TypeParameter) Index() int { return t.index }

// IsMethodParameter reports whether the parameter belongs to a method.
func (t *TypeParameter) IsMethodParameter() bool { return t.method != nil }

func (t *TypeParameter) ReflectionName() string {
	if t.method != nil {
		return fmt.Sprintf("``%d", t.index)
	}
	return fmt.Sprintf("`%d", t.index)
}

func (t *TypeParameter) substitute(s Substitution) Type {
	if bound, ok := s[t]; ok {
		return bound
	}
	return t
}

// Identical reports whether a and b denote the same type. Method type
// parameters are matched by position so that signatures of different
// methods can be compared.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	a, b = normalize(a), normalize(b)

	switch x := a.(type) {
	case *TypeParameter:
		y, ok := b.(*TypeParameter)
		if !ok {
			return false
		}
		if x.method != nil && y.method != nil {
			return x.index == y.index
		}
		return x == y
	case *Definition:
		return a == b
	case *Parameterized:
		y, ok := b.(*Parameterized)
		if !ok || x.def != y.def || len(x.args) != len(y.args) {
			return false
		}
		for i := range x.args {
			if !Identical(x.args[i], y.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// normalize maps an open generic definition to its self type so that it
// compares equal to the definition applied to its own parameters.
func normalize(t Type) Type {
	if d, ok := t.(*Definition); ok && len(d.AllTypeParameters()) > 0 {
		return d.SelfType()
	}
	return t
}

func display(d *Definition, args []Type) string {
	var b strings.Builder
	outer := 0
	if d.declaringType != nil {
		outer = len(d.declaringType.AllTypeParameters())
		b.WriteString(display(d.declaringType, args[:outer]))
		b.WriteByte('.')
	} else if d.namespace != "" {
		b.WriteString(d.namespace)
		b.WriteByte('.')
	}
	b.WriteString(d.name)

	if own := args[outer:]; len(own) > 0 {
		b.WriteByte('<')
		for i, a := range own {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}
