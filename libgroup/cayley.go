package libgroup

import (
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

// CayleyTable is the full composition table of a finite permutation set,
// computed once per group and cached for the session's lifetime.
// Products are mapped back to element ids through an exact-match index built
// at construction, so a lookup never scans the element list.
type CayleyTable struct {
	perms    []grouplay.Perm
	table    [][]grouplay.ElemID
	inv      []grouplay.ElemID
	identity grouplay.ElemID
	index    map[string]grouplay.ElemID
}

// BuildCayleyTable composes every ordered pair of the given permutations.
// It fails with ErrNotAGroup if the set has duplicates, lacks the identity,
// is not closed under composition, or an element has no inverse in the set.
// Externally supplied sets that fail here are corrupt level data, not player error.
func BuildCayleyTable(perms []grouplay.Perm) (*CayleyTable, error) {
	n := len(perms)
	if n == 0 {
		return nil, errors.Wrap(grouplay.ErrNotAGroup, "empty element set")
	}

	ct := &CayleyTable{
		perms: perms,
		index: make(map[string]grouplay.ElemID, n),
	}

	for i, p := range perms {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		if len(p) != len(perms[0]) {
			return nil, errors.Wrapf(grouplay.ErrInvalidPerm, "element %d acts on %d points, want %d", i, len(p), len(perms[0]))
		}
		if _, dup := ct.index[p.Key()]; dup {
			return nil, errors.Wrapf(grouplay.ErrNotAGroup, "duplicate element %s", p)
		}
		ct.index[p.Key()] = grouplay.ElemID(i)
	}

	eID, ok := ct.index[grouplay.IdentityPerm(len(perms[0])).Key()]
	if !ok {
		return nil, errors.Wrap(grouplay.ErrNotAGroup, "identity element missing")
	}
	ct.identity = eID

	ct.table = make([][]grouplay.ElemID, n)
	for i := range perms {
		row := make([]grouplay.ElemID, n)
		for j := range perms {
			prod := perms[i].Compose(perms[j])
			id, ok := ct.index[prod.Key()]
			if !ok {
				return nil, errors.Wrapf(grouplay.ErrNotAGroup, "not closed: %s * %s = %s is outside the set",
					perms[i], perms[j], prod)
			}
			row[j] = id
		}
		ct.table[i] = row
	}

	ct.inv = make([]grouplay.ElemID, n)
	for i := range perms {
		found := false
		for j := range perms {
			if ct.table[i][j] == eID && ct.table[j][i] == eID {
				ct.inv[i] = grouplay.ElemID(j)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Wrapf(grouplay.ErrNotAGroup, "element %s has no inverse in the set", perms[i])
		}
	}

	return ct, nil
}

// Order returns the number of elements.
func (ct *CayleyTable) Order() int {
	return len(ct.perms)
}

// Identity returns the id of the identity element.
func (ct *CayleyTable) Identity() grouplay.ElemID {
	return ct.identity
}

// Perm returns the permutation of element a.
func (ct *CayleyTable) Perm(a grouplay.ElemID) grouplay.Perm {
	return ct.perms[a]
}

// Product returns the id of a*b (b applied first).
func (ct *CayleyTable) Product(a, b grouplay.ElemID) grouplay.ElemID {
	return ct.table[a][b]
}

// Inverse returns the id of a⁻¹.
func (ct *CayleyTable) Inverse(a grouplay.ElemID) grouplay.ElemID {
	return ct.inv[a]
}

// Conjugate returns the id of g*h*g⁻¹.
func (ct *CayleyTable) Conjugate(g, h grouplay.ElemID) grouplay.ElemID {
	return ct.table[ct.table[g][h]][ct.inv[g]]
}

// Lookup maps a permutation back to its element id by exact match.
func (ct *CayleyTable) Lookup(p grouplay.Perm) (grouplay.ElemID, bool) {
	id, ok := ct.index[p.Key()]
	return id, ok
}

// ElemOrder returns the order of element a, by repeated products bounded by |G|.
func (ct *CayleyTable) ElemOrder(a grouplay.ElemID) int {
	k := 1
	for p := a; p != ct.identity; k++ {
		p = ct.table[p][a]
	}
	return k
}

// Verify re-checks the three group properties over the cached table: identity
// present, every row and column a permutation of all element ids (the Latin
// square property, equivalent to closure), and every element invertible.
// BuildCayleyTable already enforces these; Verify exists as the defensive
// validation pass run once on externally supplied automorphism sets.
func (ct *CayleyTable) Verify() error {
	n := len(ct.perms)
	raw := make([][]int, n)
	for i, row := range ct.table {
		r := make([]int, n)
		for j, id := range row {
			r[j] = int(id)
		}
		raw[i] = r
	}
	return verifyGroupTable(raw, int(ct.identity))
}

// SubsetClosed reports whether the member set is closed under the group
// product. set is the membership mask over element ids; members lists the
// same ids in ascending order. On failure the first violating pair under
// ascending iteration is returned.
func (ct *CayleyTable) SubsetClosed(members []grouplay.ElemID, set []bool) (ok bool, a, b grouplay.ElemID) {
	for _, x := range members {
		for _, y := range members {
			if !set[ct.table[x][y]] {
				return false, x, y
			}
		}
	}
	return true, 0, 0
}

// verifyGroupTable checks the group axioms over an arbitrary finite
// multiplication table t, where t[i][j] is the index of element i*j.
// The same routine verifies the raw Cayley table and the induced quotient
// table, which differ only in what their indices denote.
func verifyGroupTable(t [][]int, identity int) error {
	n := len(t)
	if identity < 0 || identity >= n {
		return errors.Wrap(grouplay.ErrNotAGroup, "identity index out of range")
	}

	for i, row := range t {
		if len(row) != n {
			return errors.Wrapf(grouplay.ErrNotAGroup, "row %d has %d entries, want %d", i, len(row), n)
		}
		seenRow := make([]bool, n)
		for j, v := range row {
			if v < 0 || v >= n {
				return errors.Wrapf(grouplay.ErrNotAGroup, "entry (%d,%d) out of range", i, j)
			}
			if seenRow[v] {
				return errors.Wrapf(grouplay.ErrNotAGroup, "row %d repeats element %d", i, v)
			}
			seenRow[v] = true
		}
		if t[i][identity] != i || t[identity][i] != i {
			return errors.Wrapf(grouplay.ErrNotAGroup, "identity does not fix element %d", i)
		}
	}

	for j := 0; j < n; j++ {
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			v := t[i][j]
			if seen[v] {
				return errors.Wrapf(grouplay.ErrNotAGroup, "column %d repeats element %d", j, v)
			}
			seen[v] = true
		}
	}

	for i := 0; i < n; i++ {
		found := false
		for j := 0; j < n; j++ {
			if t[i][j] == identity && t[j][i] == identity {
				found = true
				break
			}
		}
		if !found {
			return errors.Wrapf(grouplay.ErrNotAGroup, "element %d has no inverse", i)
		}
	}

	return nil
}
