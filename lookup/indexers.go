package lookup

import (
	"slices"

	"github.com/skdltmxn/lookup-go/typesys"
)

// LookupIndexers returns the indexers visible through target, grouped by
// declaring level and ordered base first. Overrides fold into the group of
// the indexer they override. argCount keeps only indexers with that many
// parameters; -1 keeps all of them.
func (l *MemberLookup) LookupIndexers(target Target, argCount int) ([]*MemberGroup, error) {
	if target.Type == nil {
		return nil, invalidf("target %s has no type", target.Kind)
	}
	if argCount < -1 {
		return nil, invalidf("argument count %d", argCount)
	}

	root := target.scanRoot()
	if root == nil {
		return nil, nil
	}
	allowProtected := l.allowProtected(target)

	if root.Kind() == typesys.TypeKindInterface {
		var groups []*MemberGroup
		for st := range typesys.Supertypes(root) {
			def := st.Definition()
			if def == nil {
				continue
			}
			if members := indexersOf(def, argCount); len(members) > 0 {
				g := &MemberGroup{DeclaringType: st}
				for _, m := range members {
					g.Members = append(g.Members, typesys.Specialize(m, st))
				}
				groups = append(groups, g)
			}
		}
		slices.Reverse(groups)
		return l.filterGroups(groups, allowProtected), nil
	}

	c := newCollector()
	for level := range typesys.BaseChain(root) {
		def := level.Definition()
		if def == nil {
			continue
		}
		members := indexersOf(def, argCount)
		if len(members) == 0 {
			continue
		}
		if c.add(level, members) {
			break
		}
	}
	return l.filterGroups(c.groups(), allowProtected), nil
}

func indexersOf(def *typesys.Definition, argCount int) []*typesys.Member {
	var out []*typesys.Member
	for m := range def.Members() {
		if m.Kind() != typesys.MemberKindIndexer {
			continue
		}
		if argCount >= 0 && len(m.Parameters()) != argCount {
			continue
		}
		out = append(out, m)
	}
	return out
}
