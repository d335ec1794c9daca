package lookup

import (
	"fmt"

	"github.com/skdltmxn/lookup-go/typesys"
)

// TargetKind tells how the receiver of a member access was written.
type TargetKind uint8

const (
	// TargetExpression is an arbitrary expression such as a local or a
	// parameter.
	TargetExpression TargetKind = iota
	// TargetThis is the "this" expression.
	TargetThis
	// TargetBase is the "base" expression.
	TargetBase
	// TargetType is a bare type name used for static access.
	TargetType
)

func (k TargetKind) String() string {
	switch k {
	case TargetExpression:
		return "expr"
	case TargetThis:
		return "this"
	case TargetBase:
		return "base"
	case TargetType:
		return "type"
	default:
		return "unknown"
	}
}

// ParseTargetKind maps the names printed by TargetKind.String back to kinds.
func ParseTargetKind(s string) (TargetKind, error) {
	switch s {
	case "expr", "expression", "":
		return TargetExpression, nil
	case "this":
		return TargetThis, nil
	case "base":
		return TargetBase, nil
	case "type":
		return TargetType, nil
	}
	return 0, invalidf("unknown target kind %q", s)
}

// Target is the receiver of a member access.
type Target struct {
	Kind TargetKind

	// Type is the static type of the receiver. For TargetBase it is the
	// accessing type; scanning starts at its base class.
	Type typesys.Type
}

// Expression returns a target for an expression of static type t.
func Expression(t typesys.Type) Target {
	return Target{Kind: TargetExpression, Type: t}
}

// This returns a target for "this" inside t.
func This(t typesys.Type) Target {
	return Target{Kind: TargetThis, Type: t}
}

// Base returns a target for "base" inside t.
func Base(t typesys.Type) Target {
	return Target{Kind: TargetBase, Type: t}
}

// TypeReference returns a target for static access through the type name t.
func TypeReference(t typesys.Type) Target {
	return Target{Kind: TargetType, Type: t}
}

// scanRoot returns the type whose base chain is walked.
func (t Target) scanRoot() typesys.Type {
	if t.Kind == TargetBase {
		return typesys.BaseClass(t.Type)
	}
	return t.Type
}

func (t Target) String() string {
	if t.Type == nil {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Type)
}
