package lookup

import (
	"github.com/skdltmxn/lookup-go/typesys"
)

// IsAccessible reports whether member is visible from the accessing type.
// allowProtectedAccess tells whether the receiver qualifies for protected
// instance access; see IsProtectedAccessAllowed.
func (l *MemberLookup) IsAccessible(member *typesys.Member, allowProtectedAccess bool) bool {
	if member == nil {
		return false
	}
	return l.isAccessible(member.DeclaringType(), member.Accessibility(),
		member.IsStatic(), allowProtectedAccess)
}

// IsTypeAccessible reports whether a nested type definition is visible from
// the accessing type. Top-level types are always visible.
func (l *MemberLookup) IsTypeAccessible(def *typesys.Definition) bool {
	if def == nil {
		return false
	}
	outer := def.DeclaringType()
	if outer == nil {
		return def.Accessibility() != typesys.AccessibilityInternal ||
			l.isInternalAccessible(def)
	}
	return l.isAccessible(outer, def.Accessibility(), true, true)
}

// IsProtectedAccessAllowed reports whether protected instance members may
// be accessed through a receiver of type t. The receiver must be the
// accessing type, one of its outer types, or derived from one of them.
func (l *MemberLookup) IsProtectedAccessAllowed(t typesys.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == typesys.TypeKindTypeParameter {
		t = typesys.BaseClass(t)
		if t == nil {
			return false
		}
	}
	def := t.Definition()
	if def == nil {
		return false
	}
	for c := l.current; c != nil; c = c.DeclaringType() {
		if def.IsDerivedFrom(c) {
			return true
		}
	}
	return false
}

// IsInvocable reports whether the member can be the target of a call:
// methods, and fields, properties or events whose type is a delegate.
func IsInvocable(member *typesys.Member) bool {
	switch member.Kind() {
	case typesys.MemberKindMethod:
		return true
	case typesys.MemberKindField, typesys.MemberKindProperty, typesys.MemberKindEvent:
		t := member.ReturnType()
		return t != nil && t.Kind() == typesys.TypeKindDelegate
	}
	return false
}

func (l *MemberLookup) isAccessible(declaring *typesys.Definition, acc typesys.Accessibility, static, allowProtected bool) bool {
	switch acc {
	case typesys.AccessibilityPublic:
		return true
	case typesys.AccessibilityPrivate:
		return l.current != nil && l.current.IsNestedIn(declaring)
	case typesys.AccessibilityProtected:
		return l.isProtectedAccessible(declaring, static, allowProtected)
	case typesys.AccessibilityInternal:
		return l.isInternalAccessible(declaring)
	case typesys.AccessibilityProtectedInternal:
		return l.isInternalAccessible(declaring) ||
			l.isProtectedAccessible(declaring, static, allowProtected)
	}
	return false
}

// isProtectedAccessible checks that the accessing type or one of its outer
// types derives from the declaring type. Static members do not depend on
// the receiver.
func (l *MemberLookup) isProtectedAccessible(declaring *typesys.Definition, static, allowProtected bool) bool {
	if static {
		allowProtected = true
	}
	for c := l.current; c != nil; c = c.DeclaringType() {
		if c.IsDerivedFrom(declaring) {
			return allowProtected
		}
	}
	return false
}

func (l *MemberLookup) isInternalAccessible(declaring *typesys.Definition) bool {
	return l.assembly != nil && declaring.Assembly() == l.assembly
}

// allowProtected decides protected instance access for a target.
func (l *MemberLookup) allowProtected(target Target) bool {
	switch target.Kind {
	case TargetThis, TargetBase:
		return true
	}
	return l.IsProtectedAccessAllowed(target.Type)
}
