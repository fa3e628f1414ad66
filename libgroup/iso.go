package libgroup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludic-systems/grouplay"
)

// Isomorphism-type labels for the small groups the game actually meets.
// Orders up to 8 get their textbook names; anything larger falls back to a
// canonical signature over the element-order multiset, which is enough to
// drive the offering policy's diversity ordering and the level cross-check.

func tableElemOrder(t [][]int, identity, a int) int {
	k := 1
	for p := a; p != identity; k++ {
		p = t[p][a]
	}
	return k
}

func tableIsAbelian(t [][]int) bool {
	for i := range t {
		for j := i + 1; j < len(t); j++ {
			if t[i][j] != t[j][i] {
				return false
			}
		}
	}
	return true
}

// isoLabelFromTable names the isomorphism type of the group given by
// multiplication table t with the given identity index.
func isoLabelFromTable(t [][]int, identity int) string {
	n := len(t)
	orders := make([]int, n)
	maxOrder := 0
	for i := range t {
		orders[i] = tableElemOrder(t, identity, i)
		if orders[i] > maxOrder {
			maxOrder = orders[i]
		}
	}

	if maxOrder == n {
		return fmt.Sprintf("C%d", n)
	}

	abelian := tableIsAbelian(t)
	order4 := 0
	for _, o := range orders {
		if o == 4 {
			order4++
		}
	}

	switch {
	case n == 4:
		return "V4" // non-cyclic order 4
	case n == 6 && !abelian:
		return "S3"
	case n == 8 && !abelian && order4 == 2:
		return "D4"
	case n == 8 && !abelian && order4 == 6:
		return "Q8"
	case n == 8 && abelian && order4 > 0:
		return "C4xC2"
	case n == 8 && abelian:
		return "C2xC2xC2"
	}

	sort.Ints(orders)
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = fmt.Sprint(o)
	}
	tag := "na"
	if abelian {
		tag = "ab"
	}
	return fmt.Sprintf("G%d:%s[%s]", n, tag, strings.Join(parts, " "))
}

// inducedTable re-indexes the products of a closed member set (ascending
// element-id order) over positions 0..len(members)-1, so table-level helpers
// can treat a subgroup as a group in its own right.
func inducedTable(ct *CayleyTable, members []grouplay.ElemID) ([][]int, int) {
	pos := make(map[grouplay.ElemID]int, len(members))
	for i, m := range members {
		pos[m] = i
	}
	t := make([][]int, len(members))
	identity := 0
	for i, a := range members {
		row := make([]int, len(members))
		for j, b := range members {
			row[j] = pos[ct.table[a][b]]
		}
		t[i] = row
		if a == ct.identity {
			identity = i
		}
	}
	return t, identity
}

// subgroupIsoLabel names the isomorphism type of a closed member set.
func subgroupIsoLabel(ct *CayleyTable, members []grouplay.ElemID) string {
	t, identity := inducedTable(ct, members)
	return isoLabelFromTable(t, identity)
}
