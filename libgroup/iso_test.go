package libgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludic-systems/grouplay"
)

// allIDs lists every element id of a table, for whole-group iso labeling.
func allIDs(ct *CayleyTable) []grouplay.ElemID {
	ids := make([]grouplay.ElemID, ct.Order())
	for i := range ids {
		ids[i] = grouplay.ElemID(i)
	}
	return ids
}

// TestIsoLabelsSmallGroups pins the textbook names for the groups the demo
// levels meet.
func TestIsoLabelsSmallGroups(t *testing.T) {
	c4 := mustGroup(t, 4, "", "(1 2 3 4)", "(1 3)(2 4)", "(1 4 3 2)")
	assert.Equal(t, "C4", subgroupIsoLabel(c4, allIDs(c4)))

	v4 := mustGroup(t, 4, "", "(1 2)(3 4)", "(1 3)(2 4)", "(1 4)(2 3)")
	assert.Equal(t, "V4", subgroupIsoLabel(v4, allIDs(v4)))

	s3 := s3Table(t)
	assert.Equal(t, "S3", subgroupIsoLabel(s3, allIDs(s3)))

	d4 := d4Table(t)
	assert.Equal(t, "D4", subgroupIsoLabel(d4, allIDs(d4)))

	c6 := mustGroup(t, 6, "", "(1 2 3 4 5 6)", "(1 3 5)(2 4 6)", "(1 4)(2 5)(3 6)", "(1 5 3)(2 6 4)", "(1 6 5 4 3 2)")
	assert.Equal(t, "C6", subgroupIsoLabel(c6, allIDs(c6)))
}

// TestIsoLabelsOrder8Abelian distinguishes the two non-cyclic abelian groups
// of order 8 by whether any element has order 4.
func TestIsoLabelsOrder8Abelian(t *testing.T) {
	e3 := mustGroup(t, 6,
		"", "(1 2)", "(3 4)", "(5 6)",
		"(1 2)(3 4)", "(1 2)(5 6)", "(3 4)(5 6)", "(1 2)(3 4)(5 6)")
	assert.Equal(t, "C2xC2xC2", subgroupIsoLabel(e3, allIDs(e3)))

	c4c2 := mustGroup(t, 6,
		"", "(1 2 3 4)", "(1 3)(2 4)", "(1 4 3 2)",
		"(5 6)", "(1 2 3 4)(5 6)", "(1 3)(2 4)(5 6)", "(1 4 3 2)(5 6)")
	assert.Equal(t, "C4xC2", subgroupIsoLabel(c4c2, allIDs(c4c2)))
}

// TestIsoLabelSubgroups labels subsets rather than whole groups.
func TestIsoLabelSubgroups(t *testing.T) {
	d4 := d4Table(t)
	assert.Equal(t, "C4", subgroupIsoLabel(d4, []grouplay.ElemID{0, 1, 2, 3}))
	assert.Equal(t, "C2", subgroupIsoLabel(d4, []grouplay.ElemID{0, 2}))
	assert.Equal(t, "V4", subgroupIsoLabel(d4, []grouplay.ElemID{0, 2, 4, 5}))
	assert.Equal(t, "C1", subgroupIsoLabel(d4, []grouplay.ElemID{0}))
}

// TestIsoLabelFallback checks the canonical signature used past order 8.
func TestIsoLabelFallback(t *testing.T) {
	// D5: rotations of the pentagon plus the five reflections.
	d5 := mustGroup(t, 5,
		"", "(1 2 3 4 5)", "(1 3 5 2 4)", "(1 4 2 5 3)", "(1 5 4 3 2)",
		"(2 5)(3 4)", "(1 3)(4 5)", "(1 5)(2 4)", "(1 2)(3 5)", "(1 4)(2 3)")
	assert.Equal(t, "G10:na[1 2 2 2 2 2 5 5 5 5]", subgroupIsoLabel(d5, allIDs(d5)))
}
