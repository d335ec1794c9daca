package lookup

import (
	"slices"

	"github.com/skdltmxn/lookup-go/typesys"
)

// collector accumulates overload groups during a derived-to-base walk.
// An override is held back until the walk reaches the member that
// introduced the virtual slot and then takes that member's place.
type collector struct {
	levels []*MemberGroup

	pending      map[*typesys.Member]pendingOverride
	pendingOrder []*typesys.Member
}

type pendingOverride struct {
	member *typesys.SpecializedMember
	level  *MemberGroup
}

func newCollector() *collector {
	return &collector{pending: make(map[*typesys.Member]pendingOverride)}
}

// empty reports whether nothing has been collected yet.
func (c *collector) empty() bool {
	for _, g := range c.levels {
		if len(g.Members) > 0 {
			return false
		}
	}
	return len(c.pending) == 0
}

// add records the members declared at level and reports whether one of
// them is marked new, which ends the walk.
func (c *collector) add(level typesys.Type, members []*typesys.Member) (stop bool) {
	g := &MemberGroup{DeclaringType: level}
	c.levels = append(c.levels, g)

	for _, m := range members {
		sm := typesys.Specialize(m, level)

		if m.IsOverride() && m.Overridden() != nil {
			slot := m.BaseDefinition()
			if _, claimed := c.pending[slot]; !claimed {
				c.pending[slot] = pendingOverride{member: sm, level: g}
				c.pendingOrder = append(c.pendingOrder, slot)
			}
			continue
		}

		if p, ok := c.pending[m]; ok {
			g.Members = append(g.Members, p.member)
			delete(c.pending, m)
		} else {
			g.Members = append(g.Members, sm)
		}
		if m.IsNew() {
			stop = true
		}
	}
	return stop
}

// groups returns the non-empty groups ordered base first. Overrides whose
// virtual slot was never reached stay in their own level.
func (c *collector) groups() []*MemberGroup {
	for _, slot := range c.pendingOrder {
		if p, ok := c.pending[slot]; ok {
			p.level.Members = append(p.level.Members, p.member)
		}
	}

	out := make([]*MemberGroup, 0, len(c.levels))
	for _, g := range c.levels {
		if len(g.Members) > 0 {
			out = append(out, g)
		}
	}
	slices.Reverse(out)
	return out
}
