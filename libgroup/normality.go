package libgroup

import "github.com/ludic-systems/grouplay"

// classifyNormality exhaustively conjugates every member h of the subgroup by
// every element g of the group. Iteration is g over G then h over the members,
// both in ascending element-id order, so the first witness found is the same
// on every run; tests and player-facing replays rely on that determinism.
//
// An exhausted scan with no escapee certifies the subgroup Normal.
func classifyNormality(ct *CayleyTable, members []grouplay.ElemID, set []bool) (grouplay.Normality, *grouplay.ConjWitness) {
	n := ct.Order()
	for g := 0; g < n; g++ {
		gid := grouplay.ElemID(g)
		for _, h := range members {
			c := ct.Conjugate(gid, h)
			if !set[c] {
				return grouplay.NonNormal, &grouplay.ConjWitness{G: gid, H: h, Conj: c}
			}
		}
	}
	return grouplay.Normal, nil
}
