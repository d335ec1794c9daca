package typesys

import (
	"strings"
)

// MemberKind identifies the category of a member.
type MemberKind uint8

const (
	MemberKindUnknown MemberKind = iota
	MemberKindField
	MemberKindProperty
	MemberKindEvent
	MemberKindMethod
	MemberKindIndexer
	MemberKindConstructor
)

func (k MemberKind) String() string {
	switch k {
	case MemberKindField:
		return "field"
	case MemberKindProperty:
		return "property"
	case MemberKindEvent:
		return "event"
	case MemberKindMethod:
		return "method"
	case MemberKindIndexer:
		return "indexer"
	case MemberKindConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Accessibility is the declared visibility of a member or nested type.
type Accessibility uint8

const (
	AccessibilityNone Accessibility = iota
	AccessibilityPrivate
	AccessibilityProtected
	AccessibilityInternal
	AccessibilityProtectedInternal
	AccessibilityPublic
)

func (a Accessibility) String() string {
	switch a {
	case AccessibilityPrivate:
		return "private"
	case AccessibilityProtected:
		return "protected"
	case AccessibilityInternal:
		return "internal"
	case AccessibilityProtectedInternal:
		return "protected internal"
	case AccessibilityPublic:
		return "public"
	default:
		return "none"
	}
}

// Member is a field, property, event, method, indexer or constructor
// declared on exactly one type definition.
type Member struct {
	name          string
	kind          MemberKind
	declaringType *Definition
	accessibility Accessibility

	isStatic   bool
	isVirtual  bool
	isAbstract bool
	isOverride bool
	isSealed   bool
	isNew      bool

	// returnType is the field/property/event type or the method return type.
	returnType     Type
	parameters     []*Parameter
	typeParameters []*TypeParameter

	// overridden links an override to the member it overrides. Nil for
	// members that are not overrides and for overrides without a match.
	overridden *Member
}

// Parameter is a method or indexer parameter.
type Parameter struct {
	Name string
	Type Type
}

func (m *Member) Name() string                  { return m.name }
func (m *Member) Kind() MemberKind              { return m.kind }
func (m *Member) DeclaringType() *Definition    { return m.declaringType }
func (m *Member) Accessibility() Accessibility  { return m.accessibility }
func (m *Member) IsStatic() bool                { return m.isStatic }
func (m *Member) IsVirtual() bool               { return m.isVirtual }
func (m *Member) IsAbstract() bool              { return m.isAbstract }
func (m *Member) IsOverride() bool              { return m.isOverride }
func (m *Member) IsSealed() bool                { return m.isSealed }
func (m *Member) ReturnType() Type              { return m.returnType }
func (m *Member) Parameters() []*Parameter      { return m.parameters }
func (m *Member) TypeParameters() []*TypeParameter { return m.typeParameters }
func (m *Member) Overridden() *Member           { return m.overridden }

// IsNew reports whether the member carries the explicit hiding marker.
func (m *Member) IsNew() bool { return m.isNew }

// IsMethod reports whether the member is an ordinary method.
func (m *Member) IsMethod() bool { return m.kind == MemberKindMethod }

// IsOverridable reports whether a derived member may override this one.
func (m *Member) IsOverridable() bool {
	return (m.isVirtual || m.isAbstract || m.isOverride) && !m.isSealed && !m.isStatic
}

// FullName returns "Ns.Type.Member".
func (m *Member) FullName() string {
	return m.declaringType.FullName() + "." + m.name
}

// BaseDefinition follows the override linkage to the member that
// introduced the virtual slot. Members that are not overrides return
// themselves.
func (m *Member) BaseDefinition() *Member {
	cur := m
	for cur.overridden != nil {
		cur = cur.overridden
	}
	return cur
}

func (m *Member) String() string {
	return signature(m, m.FullName(), m.returnType, m.parameters)
}

// SpecializedMember is a member seen through a substituted declaring type.
// For B : Base<int>, Base<T>.M(T) is specialized to M(System.Int32).
type SpecializedMember struct {
	member        *Member
	declaringType Type
	returnType    Type
	parameters    []*Parameter
}

// Specialize views m through declaringType, which must be m's declaring
// definition or a parameterization of it.
func Specialize(m *Member, declaringType Type) *SpecializedMember {
	s := SubstitutionOf(declaringType)
	sm := &SpecializedMember{
		member:        m,
		declaringType: declaringType,
		returnType:    s.Apply(m.returnType),
		parameters:    m.parameters,
	}
	if len(s) > 0 && len(m.parameters) > 0 {
		sm.parameters = make([]*Parameter, len(m.parameters))
		for i, p := range m.parameters {
			sm.parameters[i] = &Parameter{Name: p.Name, Type: s.Apply(p.Type)}
		}
	}
	return sm
}

func (s *SpecializedMember) Definition() *Member          { return s.member }
func (s *SpecializedMember) DeclaringType() Type          { return s.declaringType }
func (s *SpecializedMember) Name() string                 { return s.member.name }
func (s *SpecializedMember) FullName() string             { return s.member.FullName() }
func (s *SpecializedMember) Kind() MemberKind             { return s.member.kind }
func (s *SpecializedMember) Accessibility() Accessibility { return s.member.accessibility }
func (s *SpecializedMember) IsStatic() bool               { return s.member.isStatic }
func (s *SpecializedMember) ReturnType() Type             { return s.returnType }
func (s *SpecializedMember) Parameters() []*Parameter     { return s.parameters }

// TypeParameters returns the method's own type parameters. They are not
// substituted at lookup time.
func (s *SpecializedMember) TypeParameters() []*TypeParameter {
	return s.member.typeParameters
}

func (s *SpecializedMember) String() string {
	return signature(s.member, s.member.FullName(), s.returnType, s.parameters)
}

func signature(m *Member, name string, ret Type, params []*Parameter) string {
	var b strings.Builder
	b.WriteString(m.accessibility.String())
	b.WriteByte(' ')
	if m.isStatic {
		b.WriteString("static ")
	}
	switch {
	case m.isOverride:
		b.WriteString("override ")
	case m.isAbstract:
		b.WriteString("abstract ")
	case m.isVirtual:
		b.WriteString("virtual ")
	}
	if m.isNew {
		b.WriteString("new ")
	}
	if m.kind != MemberKindMethod && m.kind != MemberKindConstructor {
		b.WriteString(m.kind.String())
		b.WriteByte(' ')
	}
	if ret != nil {
		b.WriteString(ret.String())
		b.WriteByte(' ')
	}
	b.WriteString(name)

	if len(m.typeParameters) > 0 {
		b.WriteByte('<')
		for i, tp := range m.typeParameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tp.name)
		}
		b.WriteByte('>')
	}

	switch m.kind {
	case MemberKindMethod, MemberKindConstructor:
		b.WriteByte('(')
		writeParams(&b, params)
		b.WriteByte(')')
	case MemberKindIndexer:
		b.WriteByte('[')
		writeParams(&b, params)
		b.WriteByte(']')
	}
	return b.String()
}

func writeParams(b *strings.Builder, params []*Parameter) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
	}
}
