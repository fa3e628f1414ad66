package libgroup

import (
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

// buildQuotient partitions G into left cosets of the normal subgroup given by
// members/set and builds the verified quotient group over them.
//
// The partition uses the equivalence a ~ b iff b⁻¹*a is in N, scanning G once
// in element-id order: each unassigned element seeds a new coset and collects
// every later element equivalent to it. Because the scan is ascending, the
// seed of each coset is its lexicographically-first member, which makes it
// the canonical representative and the quotient table well-defined no matter
// which representative a caller hands in.
//
// The caller is responsible for certifying normality first; for a non-normal
// subgroup the "cosets" produced here would not form a group and verification
// would reject them.
func buildQuotient(ct *CayleyTable, members []grouplay.ElemID, set []bool) (*grouplay.QuotientInfo, error) {
	n := ct.Order()

	cosetOf := make([]int, n)
	for i := range cosetOf {
		cosetOf[i] = -1
	}

	var reps []grouplay.ElemID
	var cosets [][]grouplay.ElemID

	for a := 0; a < n; a++ {
		if cosetOf[a] >= 0 {
			continue
		}
		idx := len(cosets)
		seed := grouplay.ElemID(a)
		coset := []grouplay.ElemID{seed}
		cosetOf[a] = idx
		for b := a + 1; b < n; b++ {
			if cosetOf[b] >= 0 {
				continue
			}
			// b is in the coset of a iff b⁻¹*a lands in N
			if set[ct.Product(ct.Inverse(grouplay.ElemID(b)), seed)] {
				cosetOf[b] = idx
				coset = append(coset, grouplay.ElemID(b))
			}
		}
		reps = append(reps, seed)
		cosets = append(cosets, coset)
	}

	// Lagrange: the cosets of N partition G into |G|/|N| classes of size |N|.
	for _, coset := range cosets {
		if len(coset) != len(members) {
			return nil, errors.Wrapf(grouplay.ErrNotAGroup,
				"coset of size %d, want %d: subgroup is not normal or not closed", len(coset), len(members))
		}
	}

	q := &grouplay.QuotientInfo{
		Order:  len(cosets),
		Reps:   reps,
		Cosets: cosets,
		Table:  make([][]int, len(cosets)),
	}

	// The product of cosets cN and c'N is the coset containing c*c',
	// computed from the canonical representatives.
	for i, ri := range reps {
		row := make([]int, len(reps))
		for j, rj := range reps {
			row[j] = cosetOf[ct.Product(ri, rj)]
		}
		q.Table[i] = row
	}

	q.IdentityCoset = cosetOf[ct.Identity()]
	if err := verifyGroupTable(q.Table, q.IdentityCoset); err != nil {
		return nil, err
	}

	q.IsoLabel = isoLabelFromTable(q.Table, q.IdentityCoset)
	q.Verified = true
	return q, nil
}
