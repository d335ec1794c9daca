package lookup

import (
	"slices"

	"github.com/skdltmxn/lookup-go/typesys"
)

type interfaceLevel struct {
	t       typesys.Type
	def     *typesys.Definition
	methods []*typesys.Member
	values  []*typesys.Member
}

// lookupInterface gathers members over the interface closure of root. A
// member hides only members of the interfaces its own interface derives
// from. It reports false when no interface declares the name.
func (l *MemberLookup) lookupInterface(root typesys.Type, target Target, name string, typeArguments []typesys.Type, isInvocation, allowProtected bool) (Result, bool) {
	var levels []*interfaceLevel
	for st := range typesys.Supertypes(root) {
		def := st.Definition()
		if def == nil || !def.IsInterface() {
			continue
		}
		methods, values := partition(def.MembersNamed(name), typeArguments)
		if len(methods)+len(values) == 0 {
			continue
		}
		levels = append(levels, &interfaceLevel{t: st, def: def, methods: methods, values: values})
	}
	if len(levels) == 0 {
		return nil, false
	}

	var (
		values []*typesys.SpecializedMember
		groups []*MemberGroup
	)
	for _, lv := range levels {
		if hiddenInterfaceLevel(lv, levels) {
			l.logger.Debug("interface members hidden", "name", name, "level", lv.t.ReflectionName())
			continue
		}
		for _, v := range lv.values {
			if l.IsAccessible(v, allowProtected) {
				values = append(values, typesys.Specialize(v, lv.t))
			}
		}
		g := &MemberGroup{DeclaringType: lv.t}
		for _, m := range lv.methods {
			if l.IsAccessible(m, allowProtected) {
				g.Members = append(g.Members, typesys.Specialize(m, lv.t))
			}
		}
		if len(g.Members) > 0 {
			groups = append(groups, g)
		}
	}

	switch {
	case len(values) == 1 && len(groups) == 0:
		return &SingleMember{
			Member:       values[0],
			NotInvocable: isInvocation && !IsInvocable(values[0].Definition()),
		}, true
	case len(values) > 0:
		members := values
		for _, g := range groups {
			members = append(members, g.Members...)
		}
		return &Ambiguous{Name: name, Members: members}, true
	}

	slices.Reverse(groups)
	return methodResult(target, name, typeArguments, groups, &NotFound{Target: target, Name: name}), true
}

// hiddenInterfaceLevel reports whether a more derived interface hides lv.
// Methods only hide methods of the same signature, which is left to
// overload resolution, so two method levels both survive.
func hiddenInterfaceLevel(lv *interfaceLevel, levels []*interfaceLevel) bool {
	for _, other := range levels {
		if other.def == lv.def || !other.def.IsDerivedFrom(lv.def) {
			continue
		}
		if len(other.values) > 0 || len(lv.values) > 0 {
			return true
		}
	}
	return false
}
