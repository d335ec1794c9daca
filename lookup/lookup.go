package lookup

import (
	"log/slog"
	"slices"

	"github.com/skdltmxn/lookup-go/typesys"
)

// MemberLookup resolves member accesses written inside one type. It holds
// no mutable state and may be shared by concurrent callers as long as the
// model is not modified.
type MemberLookup struct {
	current  *typesys.Definition
	assembly *typesys.Assembly
	logger   *slog.Logger
}

// Option configures a MemberLookup.
type Option func(*MemberLookup)

// WithLogger sets the logger used for debug traces of the base-chain walk.
func WithLogger(logger *slog.Logger) Option {
	return func(l *MemberLookup) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a lookup for code declared in current, compiled into
// assembly. current may be nil for code outside any type; only public and
// same-assembly internal members are then visible. A nil assembly defaults
// to the assembly of current.
func New(current *typesys.Definition, assembly *typesys.Assembly, opts ...Option) *MemberLookup {
	if assembly == nil && current != nil {
		assembly = current.Assembly()
	}
	l := &MemberLookup{
		current:  current,
		assembly: assembly,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Current returns the accessing type.
func (l *MemberLookup) Current() *typesys.Definition {
	return l.current
}

// Lookup finds the members named name that are visible through target.
//
// The base chain of the target is walked from the most derived type
// outward. A field, property or event found before any method ends the
// walk and hides everything further out. Methods found at several levels
// stack up as groups; an override is reported in the group of the type
// that introduced the virtual method, and a method marked new ends the
// walk after its level. Accessibility is applied last, so an inaccessible
// member still hides. typeArguments only filters methods by the number of
// type parameters they declare.
func (l *MemberLookup) Lookup(target Target, name string, typeArguments []typesys.Type, isInvocation bool) (Result, error) {
	if err := validate(target, name, typeArguments); err != nil {
		return nil, err
	}

	notFound := &NotFound{Target: target, Name: name}
	root := target.scanRoot()
	if root == nil {
		return notFound, nil
	}

	allowProtected := l.allowProtected(target)
	log := l.logger.With("name", name, "target", target.String())

	if root.Kind() == typesys.TypeKindInterface {
		res, found := l.lookupInterface(root, target, name, typeArguments, isInvocation, allowProtected)
		if found {
			return res, nil
		}
		log.Debug("falling back to object members")
		root = objectOf(root)
		if root == nil {
			return notFound, nil
		}
	}

	var (
		c         = newCollector()
		nonMethod *typesys.SpecializedMember
	)
	for level := range typesys.BaseChain(root) {
		def := level.Definition()
		if def == nil {
			continue
		}
		declared := def.MembersNamed(name)
		if len(declared) == 0 {
			continue
		}

		methods, values := partition(declared, typeArguments)
		if len(values) > 0 && c.empty() {
			nonMethod = typesys.Specialize(values[0], level)
			log.Debug("non-method member ends walk", "level", level.ReflectionName())
			break
		}
		if len(methods) == 0 {
			continue
		}

		log.Debug("collecting methods", "level", level.ReflectionName(), "count", len(methods))
		if c.add(level, methods) {
			log.Debug("method marked new ends walk", "level", level.ReflectionName())
			break
		}
	}

	if nonMethod != nil {
		if !l.IsAccessible(nonMethod.Definition(), allowProtected) {
			return notFound, nil
		}
		return &SingleMember{
			Member:       nonMethod,
			NotInvocable: isInvocation && !IsInvocable(nonMethod.Definition()),
		}, nil
	}

	groups := l.filterGroups(c.groups(), allowProtected)
	return methodResult(target, name, typeArguments, groups, notFound), nil
}

// LookupType finds a nested type named name with len(typeArguments) own
// type parameters in t or its base classes. Outer type parameters are
// bound the way the declaring level sees them.
func (l *MemberLookup) LookupType(t typesys.Type, name string, typeArguments []typesys.Type) (typesys.Type, bool) {
	if t == nil || name == "" || slices.Contains(typeArguments, nil) {
		return nil, false
	}
	model := l.model(t)
	if model == nil {
		return nil, false
	}
	nested, ok := model.FindNestedType(t, name, typeArguments)
	if !ok || !l.IsTypeAccessible(nested.Definition()) {
		return nil, false
	}
	return nested, true
}

func (l *MemberLookup) model(t typesys.Type) *typesys.Model {
	if l.assembly != nil {
		return l.assembly.Model()
	}
	if def := t.Definition(); def != nil && def.Assembly() != nil {
		return def.Assembly().Model()
	}
	return nil
}

func validate(target Target, name string, typeArguments []typesys.Type) error {
	if name == "" {
		return invalidf("empty member name")
	}
	if target.Type == nil {
		return invalidf("target %s has no type", target.Kind)
	}
	for i, arg := range typeArguments {
		if arg == nil {
			return invalidf("type argument %d of %s is nil", i, name)
		}
	}
	return nil
}

// partition splits the members declared at one level into methods and
// value members. Indexers and constructors never match a name lookup.
// With explicit type arguments only methods of matching arity remain.
func partition(declared []*typesys.Member, typeArguments []typesys.Type) (methods, values []*typesys.Member) {
	for _, m := range declared {
		switch m.Kind() {
		case typesys.MemberKindMethod:
			if len(typeArguments) > 0 && len(m.TypeParameters()) != len(typeArguments) {
				continue
			}
			methods = append(methods, m)
		case typesys.MemberKindField, typesys.MemberKindProperty, typesys.MemberKindEvent:
			if len(typeArguments) > 0 {
				continue
			}
			values = append(values, m)
		}
	}
	return methods, values
}

func (l *MemberLookup) filterGroups(groups []*MemberGroup, allowProtected bool) []*MemberGroup {
	out := groups[:0]
	for _, g := range groups {
		members := g.Members[:0]
		for _, m := range g.Members {
			if l.IsAccessible(m.Definition(), allowProtected) {
				members = append(members, m)
			}
		}
		if len(members) > 0 {
			g.Members = members
			out = append(out, g)
		}
	}
	return out
}

func methodResult(target Target, name string, typeArguments []typesys.Type, groups []*MemberGroup, notFound *NotFound) Result {
	res := &MethodGroup{
		Target:        target,
		Name:          name,
		TypeArguments: typeArguments,
		Groups:        groups,
	}
	switch res.Count() {
	case 0:
		return notFound
	case 1:
		return &SingleMember{Member: groups[0].Members[0]}
	}
	return res
}

func objectOf(t typesys.Type) typesys.Type {
	def := t.Definition()
	if def == nil || def.Assembly() == nil {
		return nil
	}
	obj := def.Assembly().Model().Object()
	if obj == nil {
		return nil
	}
	return obj
}
