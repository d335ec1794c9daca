// Package typeref parses textual type references such as "A<int>.B".
package typeref

import (
	"fmt"
	"strings"
)

// NodeKind identifies the type of AST node.
type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindSegment
	NodeKindQualifiedName
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() NodeKind
	fmt.Stringer
}

// QualifiedName is a dotted reference. Every component but the last may be
// either a namespace or an outer type; the resolver decides which.
type QualifiedName struct {
	Components []*Segment
}

func (n *QualifiedName) Kind() NodeKind { return NodeKindQualifiedName }

func (n *QualifiedName) String() string {
	if len(n.Components) == 0 {
		return ""
	}

	parts := make([]string, len(n.Components))
	for i, c := range n.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, ".")
}

// Last returns the final component.
func (n *QualifiedName) Last() *Segment {
	if len(n.Components) == 0 {
		return nil
	}
	return n.Components[len(n.Components)-1]
}

// IsSimple reports whether the reference is a single identifier without
// type arguments.
func (n *QualifiedName) IsSimple() bool {
	return len(n.Components) == 1 && len(n.Components[0].Args) == 0
}

// Segment is one identifier with its optional type argument list.
type Segment struct {
	Name string
	Args []*QualifiedName
}

func (n *Segment) Kind() NodeKind { return NodeKindSegment }

func (n *Segment) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "<" + strings.Join(args, ", ") + ">"
}

// Arity returns the number of type arguments.
func (n *Segment) Arity() int { return len(n.Args) }
