package lookup

import (
	"fmt"
	"iter"
	"strings"

	"github.com/skdltmxn/lookup-go/typesys"
)

// ResultKind identifies a Result variant.
type ResultKind uint8

const (
	KindNotFound ResultKind = iota
	KindSingleMember
	KindMethodGroup
	KindAmbiguous
)

func (k ResultKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSingleMember:
		return "single_member"
	case KindMethodGroup:
		return "method_group"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Result is the outcome of a lookup. The set of variants is closed:
// *NotFound, *SingleMember, *MethodGroup and *Ambiguous.
type Result interface {
	Kind() ResultKind
	String() string

	isResult()
}

// NotFound reports that no accessible member of the name exists.
type NotFound struct {
	Target Target
	Name   string
}

func (*NotFound) Kind() ResultKind { return KindNotFound }
func (*NotFound) isResult()        {}

func (r *NotFound) String() string {
	return fmt.Sprintf("not found: %s on %s", r.Name, r.Target)
}

// SingleMember is a lookup that produced exactly one member.
type SingleMember struct {
	Member *typesys.SpecializedMember

	// NotInvocable is set when the caller asked for an invocation and the
	// member cannot be called. The caller reports the error.
	NotInvocable bool
}

func (*SingleMember) Kind() ResultKind { return KindSingleMember }
func (*SingleMember) isResult()        {}

func (r *SingleMember) String() string {
	s := r.Member.String()
	if r.NotInvocable {
		s += " (not invocable)"
	}
	return s
}

// MemberGroup holds the overloads contributed by one level of the base
// chain. DeclaringType is the level with its bindings applied. A member
// that overrides a virtual method is listed in the group of the type that
// introduced the method.
type MemberGroup struct {
	DeclaringType typesys.Type
	Members       []*typesys.SpecializedMember
}

func (g *MemberGroup) String() string {
	parts := make([]string, len(g.Members))
	for i, m := range g.Members {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s: [%s]", g.DeclaringType.ReflectionName(), strings.Join(parts, "; "))
}

// MethodGroup is a set of overloaded methods. Groups are ordered from the
// least derived level to the most derived one.
type MethodGroup struct {
	Target        Target
	Name          string
	TypeArguments []typesys.Type
	Groups        []*MemberGroup
}

func (*MethodGroup) Kind() ResultKind { return KindMethodGroup }
func (*MethodGroup) isResult()        {}

// Methods returns an iterator over all methods, group by group.
func (r *MethodGroup) Methods() iter.Seq[*typesys.SpecializedMember] {
	return func(yield func(*typesys.SpecializedMember) bool) {
		for _, g := range r.Groups {
			for _, m := range g.Members {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Count returns the number of methods across all groups.
func (r *MethodGroup) Count() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Members)
	}
	return n
}

func (r *MethodGroup) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "method group %s (%d methods)", r.Name, r.Count())
	for _, g := range r.Groups {
		b.WriteString("\n  ")
		b.WriteString(g.String())
	}
	return b.String()
}

// Ambiguous reports members of the same name inherited from unrelated
// interfaces that do not hide each other.
type Ambiguous struct {
	Name    string
	Members []*typesys.SpecializedMember
}

func (*Ambiguous) Kind() ResultKind { return KindAmbiguous }
func (*Ambiguous) isResult()        {}

func (r *Ambiguous) String() string {
	parts := make([]string, len(r.Members))
	for i, m := range r.Members {
		parts[i] = m.FullName()
	}
	return fmt.Sprintf("ambiguous: %s between %s", r.Name, strings.Join(parts, ", "))
}
