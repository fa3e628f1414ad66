package libgroup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludic-systems/grouplay"
	"github.com/ludic-systems/grouplay/libgroup"
)

// TestParseGraphExpr covers the level notation: vertex runs, color tags,
// typed and directed edge marks, and isolated vertices.
func TestParseGraphExpr(t *testing.T) {
	def, err := libgroup.ParseGraphExpr("1-2-3-1")
	require.NoError(t, err)
	assert.Len(t, def.Colors, 3)
	assert.Equal(t, []grouplay.EdgeDef{
		{From: 0, To: 1, Type: "-"},
		{From: 1, To: 2, Type: "-"},
		{From: 2, To: 0, Type: "-"},
	}, def.Edges)

	def, err = libgroup.ParseGraphExpr("1:red-2:gray-3:blue")
	require.NoError(t, err)
	assert.Equal(t, []grouplay.Color{"red", "gray", "blue"}, def.Colors)

	def, err = libgroup.ParseGraphExpr("1>2,2>3,3>1")
	require.NoError(t, err)
	for _, e := range def.Edges {
		assert.True(t, e.Directed)
		assert.Equal(t, "-", e.Type, "directed edges carry the default type")
	}

	def, err = libgroup.ParseGraphExpr("1~2,2=3")
	require.NoError(t, err)
	assert.Equal(t, "~", def.Edges[0].Type)
	assert.Equal(t, "=", def.Edges[1].Type)

	def, err = libgroup.ParseGraphExpr("1-2, 4")
	require.NoError(t, err)
	assert.Len(t, def.Colors, 4, "the highest vertex id sets the node count")
	assert.Len(t, def.Edges, 1)
}

// TestParseGraphExprErrors checks malformed notation fails with ErrBadGraphExpr.
func TestParseGraphExprErrors(t *testing.T) {
	for _, expr := range []string{
		"1-",             // dangling edge mark
		"0-1",            // vertex ids are one-based
		"1:red-2,1:blue", // conflicting color tags
	} {
		_, err := libgroup.ParseGraphExpr(expr)
		assert.ErrorIs(t, err, grouplay.ErrBadGraphExpr, "expr %q", expr)
	}
}

// TestParsePerm covers one-based cycle notation.
func TestParsePerm(t *testing.T) {
	p, err := libgroup.ParsePerm(3, "(1 2 3)")
	require.NoError(t, err)
	assert.Equal(t, grouplay.Perm{1, 2, 0}, p)

	p, err = libgroup.ParsePerm(4, "(1 2)(3 4)")
	require.NoError(t, err)
	assert.Equal(t, grouplay.Perm{1, 0, 3, 2}, p)

	p, err = libgroup.ParsePerm(3, "")
	require.NoError(t, err)
	assert.True(t, p.IsIdentity(), "the empty expression is the identity")

	for _, expr := range []string{
		"(1 2",      // unbalanced
		"(4)",       // point out of range
		"(1 2)(2 3)", // point repeated across cycles
	} {
		_, err = libgroup.ParsePerm(3, expr)
		assert.ErrorIs(t, err, grouplay.ErrBadPermExpr, "expr %q", expr)
	}
}

// TestNewLabeledGraphErrors checks GraphDef validation.
func TestNewLabeledGraphErrors(t *testing.T) {
	_, err := libgroup.NewLabeledGraph(nil)
	assert.ErrorIs(t, err, grouplay.ErrBadGraphDef)

	_, err = libgroup.NewLabeledGraph(&grouplay.GraphDef{
		Colors: make([]grouplay.Color, 2),
		Edges:  []grouplay.EdgeDef{{From: 0, To: 2}},
	})
	assert.ErrorIs(t, err, grouplay.ErrBadGraphDef, "edge endpoint out of range")

	_, err = libgroup.NewLabeledGraph(&grouplay.GraphDef{
		Colors: make([]grouplay.Color, 2),
		Edges:  []grouplay.EdgeDef{{From: 1, To: 1}},
	})
	assert.ErrorIs(t, err, grouplay.ErrBadGraphDef, "self edges are rejected")

	_, err = libgroup.NewLabeledGraph(&grouplay.GraphDef{
		Colors: make([]grouplay.Color, 2),
		Edges:  []grouplay.EdgeDef{{From: 0, To: 1}, {From: 1, To: 0}},
	})
	assert.ErrorIs(t, err, grouplay.ErrBadGraphDef, "an undirected edge already covers its reverse")
}

func mustGraph(t *testing.T, expr string) *libgroup.LabeledGraph {
	t.Helper()
	def, err := libgroup.ParseGraphExpr(expr)
	require.NoError(t, err)
	g, err := libgroup.NewLabeledGraph(def)
	require.NoError(t, err)
	return g
}

// TestCheckPermAccepts checks that genuine automorphisms come back valid and
// clean of diagnostics.
func TestCheckPermAccepts(t *testing.T) {
	g := mustGraph(t, "1-2-3-1")

	for _, expr := range []string{"", "(1 2 3)", "(2 3)"} {
		p, err := libgroup.ParsePerm(3, expr)
		require.NoError(t, err)
		v := g.CheckPerm(p)
		assert.True(t, v.Valid, "perm %q", expr)
		assert.Empty(t, v.ColorMismatches)
		assert.Empty(t, v.EdgeFaults)
	}
}

// TestCheckPermColorMismatch checks per-node color diagnostics.
func TestCheckPermColorMismatch(t *testing.T) {
	g := mustGraph(t, "1:red-2:gray-3:blue")

	p, err := libgroup.ParsePerm(3, "(1 3)")
	require.NoError(t, err)

	v := g.CheckPerm(p)
	assert.False(t, v.Valid)
	require.Len(t, v.ColorMismatches, 2, "both swapped endpoints mismatch")
	assert.Equal(t, grouplay.ColorMismatch{Node: 0, Image: 2, Want: "red", Got: "blue"}, v.ColorMismatches[0])
	assert.Equal(t, grouplay.ColorMismatch{Node: 2, Image: 0, Want: "blue", Got: "red"}, v.ColorMismatches[1])
}

// TestCheckPermEdgeFaults covers the three edge fault kinds.
func TestCheckPermEdgeFaults(t *testing.T) {
	// Missing: swapping the path's endpoint breaks one edge.
	g := mustGraph(t, "1-2-3")
	p, err := libgroup.ParsePerm(3, "(1 2)")
	require.NoError(t, err)
	v := g.CheckPerm(p)
	assert.False(t, v.Valid)
	require.Len(t, v.EdgeFaults, 1)
	assert.Equal(t, grouplay.EdgeMissing, v.EdgeFaults[0].Kind)
	assert.Equal(t, grouplay.EdgeDef{From: 1, To: 2, Type: "-"}, v.EdgeFaults[0].Edge)

	// Wrong type: the image edge exists but with a different mark.
	g = mustGraph(t, "1-2,1~3")
	p, err = libgroup.ParsePerm(3, "(2 3)")
	require.NoError(t, err)
	v = g.CheckPerm(p)
	assert.False(t, v.Valid)
	require.Len(t, v.EdgeFaults, 2)
	for _, f := range v.EdgeFaults {
		assert.Equal(t, grouplay.EdgeWrongType, f.Kind)
	}

	// Reversed: a reflection of the directed cycle flips every arrow.
	g = mustGraph(t, "1>2,2>3,3>1")
	p, err = libgroup.ParsePerm(3, "(2 3)")
	require.NoError(t, err)
	v = g.CheckPerm(p)
	assert.False(t, v.Valid)
	require.Len(t, v.EdgeFaults, 3)
	for _, f := range v.EdgeFaults {
		assert.Equal(t, grouplay.EdgeReversed, f.Kind)
	}
}
