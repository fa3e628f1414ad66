package libgroup

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/ludic-systems/grouplay"
)

// subgroupState is one accepted subgroup with its terminal classification
// records. Once accepted it is frozen: members never change, normality is set
// at most once, and a verified quotient is never rebuilt.
type subgroupState struct {
	id        grouplay.SubgroupID
	name      string
	members   []grouplay.ElemID // canonical ascending order
	set       []bool            // membership mask over element ids
	normality grouplay.Normality
	witness   *grouplay.ConjWitness
	quotient  *grouplay.QuotientInfo
}

func (sub *subgroupState) contains(id grouplay.ElemID) bool {
	return int(id) < len(sub.set) && sub.set[id]
}

// canonicalMembers sorts and dedupes an id set into its canonical ascending
// form, the form the duplicate registry compares.
func canonicalMembers(ids []grouplay.ElemID, groupOrder int) ([]grouplay.ElemID, []bool, bool) {
	set := make([]bool, groupOrder)
	for _, id := range ids {
		if int(id) >= groupOrder {
			return nil, nil, false
		}
		set[id] = true
	}
	members := make([]grouplay.ElemID, 0, len(ids))
	for id := 0; id < groupOrder; id++ {
		if set[id] {
			members = append(members, grouplay.ElemID(id))
		}
	}
	return members, set, true
}

func memberSetComparator(a, b interface{}) int {
	A := a.([]grouplay.ElemID)
	B := b.([]grouplay.ElemID)
	for i, ai := range A {
		if i >= len(B) {
			return 1
		}
		if d := int(ai) - int(B[i]); d != 0 {
			return d
		}
	}
	if len(A) < len(B) {
		return -1
	}
	return 0
}

// subgroupRegistry holds every accepted subgroup keyed by its canonical
// member set, so duplicate candidates are detected as unordered id-sets
// regardless of the order the player picked elements in.
type subgroupRegistry struct {
	tree *redblacktree.Tree
	byID []*subgroupState
}

func newSubgroupRegistry() *subgroupRegistry {
	return &subgroupRegistry{
		tree: redblacktree.NewWith(memberSetComparator),
	}
}

func (reg *subgroupRegistry) lookup(members []grouplay.ElemID) (*subgroupState, bool) {
	v, found := reg.tree.Get(members)
	if !found {
		return nil, false
	}
	return v.(*subgroupState), true
}

func (reg *subgroupRegistry) insert(sub *subgroupState) {
	sub.id = grouplay.SubgroupID(len(reg.byID))
	reg.byID = append(reg.byID, sub)
	reg.tree.Put(sub.members, sub)
}

func (reg *subgroupRegistry) get(id grouplay.SubgroupID) (*subgroupState, bool) {
	if id < 0 || int(id) >= len(reg.byID) {
		return nil, false
	}
	return reg.byID[id], true
}

// offeredTarget is one level-declared subgroup after setup validation, with
// its classification precomputed so stage task totals are known before play.
type offeredTarget struct {
	def      *grouplay.SubgroupDef
	members  []grouplay.ElemID
	set      []bool
	isoLabel string
	normal   bool
	matched  bool // an accepted subgroup equals this target
	quotient bool // a quotient was built for this target
}

// selectOffered applies the offering policy to the validated targets:
// trivial and full subgroups are excluded unless the policy keeps them, and a
// display cap reduces the list deterministically, ordered by subgroup order
// and favoring diversity of isomorphism type. The count of eligible targets
// before capping is returned alongside.
func selectOffered(targets []*offeredTarget, policy grouplay.SubgroupPolicy, groupOrder int) ([]*offeredTarget, int) {
	eligible := make([]*offeredTarget, 0, len(targets))
	for _, t := range targets {
		if len(t.members) == 1 && !policy.IncludeTrivial {
			continue
		}
		if len(t.members) == groupOrder && !policy.IncludeFull {
			continue
		}
		eligible = append(eligible, t)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if len(a.members) != len(b.members) {
			return len(a.members) < len(b.members)
		}
		if a.isoLabel != b.isoLabel {
			return a.isoLabel < b.isoLabel
		}
		return a.def.Name < b.def.Name
	})

	trueTotal := len(eligible)
	if policy.MaxOffered <= 0 || trueTotal <= policy.MaxOffered {
		return eligible, trueTotal
	}

	// Greedy diversity pick: each round takes the earliest candidate whose
	// iso type is least represented among those already picked.
	picked := make([]*offeredTarget, 0, policy.MaxOffered)
	taken := make([]bool, len(eligible))
	typeCount := map[string]int{}
	for len(picked) < policy.MaxOffered {
		best := -1
		for i, t := range eligible {
			if taken[i] {
				continue
			}
			if best < 0 || typeCount[t.isoLabel] < typeCount[eligible[best].isoLabel] {
				best = i
			}
		}
		taken[best] = true
		typeCount[eligible[best].isoLabel]++
		picked = append(picked, eligible[best])
	}

	sort.SliceStable(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if len(a.members) != len(b.members) {
			return len(a.members) < len(b.members)
		}
		if a.isoLabel != b.isoLabel {
			return a.isoLabel < b.isoLabel
		}
		return a.def.Name < b.def.Name
	})
	return picked, trueTotal
}
