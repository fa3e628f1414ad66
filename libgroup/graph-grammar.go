package libgroup

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

// Level notation, the compact text form levels and tests use:
//
//	graph:  "1:red-2:red-3:blue, 4"       runs of one-based vertices, optional
//	                                      ":color" tag, edge marks - ~ = (typed,
//	                                      undirected) and > (directed)
//	perm:   "(1 2 3)(4 5)"                one-based cycle notation, "" = identity
//
// The external loader owns level files; these parsers only cover the notation.

type graphExpr struct {
	Runs []*edgeRun `(@@ ("," @@)*)?`
}

type edgeRun struct {
	Start *vtxRef `@@`
	Hops  []*hop  `@@*`
}

type hop struct {
	Arc string  `@("-" | "~" | "=" | ">")`
	End *vtxRef `@@`
}

type vtxRef struct {
	ID    int    `@Int`
	Color string `(":" @Ident)?`
}

var parseGraphGrammar = participle.MustBuild[graphExpr]()

type permExpr struct {
	Cycles []*cycleExpr `@@+`
}

type cycleExpr struct {
	Points []int `"(" @Int @Int* ")"`
}

var parsePermGrammar = participle.MustBuild[permExpr]()

// ParseGraphExpr parses graph notation into a GraphDef.
// Vertex ids are one-based in the notation and zero-based in the result; the
// node count is the highest vertex id mentioned. A vertex's color may be
// tagged at any mention but tags must agree.
func ParseGraphExpr(expr string) (*grouplay.GraphDef, error) {
	ast, err := parseGraphGrammar.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(grouplay.ErrBadGraphExpr, err.Error())
	}

	maxID := 0
	colors := map[int]grouplay.Color{}

	tally := func(v *vtxRef) error {
		if v.ID < 1 || v.ID > grouplay.MaxPoints {
			return errors.Wrapf(grouplay.ErrBadGraphExpr, "vertex id %d out of range", v.ID)
		}
		if v.ID > maxID {
			maxID = v.ID
		}
		if v.Color != "" {
			prev, tagged := colors[v.ID]
			if tagged && prev != grouplay.Color(v.Color) {
				return errors.Wrapf(grouplay.ErrBadGraphExpr, "vertex %d tagged both %q and %q", v.ID, prev, v.Color)
			}
			colors[v.ID] = grouplay.Color(v.Color)
		}
		return nil
	}

	def := &grouplay.GraphDef{}
	for _, run := range ast.Runs {
		if err := tally(run.Start); err != nil {
			return nil, err
		}
		on := run.Start
		for _, h := range run.Hops {
			if err := tally(h.End); err != nil {
				return nil, err
			}
			e := grouplay.EdgeDef{
				From: on.ID - 1,
				To:   h.End.ID - 1,
				Type: h.Arc,
			}
			if h.Arc == ">" {
				e.Type = "-"
				e.Directed = true
			}
			def.Edges = append(def.Edges, e)
			on = h.End
		}
	}

	def.Colors = make([]grouplay.Color, maxID)
	for id, c := range colors {
		def.Colors[id-1] = c
	}
	return def, nil
}

// ParsePerm parses one-based cycle notation into a Perm on n points.
// The empty string denotes the identity. Every point must appear at most once.
func ParsePerm(n int, expr string) (grouplay.Perm, error) {
	if n < 1 || n > grouplay.MaxPoints {
		return nil, errors.Wrapf(grouplay.ErrBadPermExpr, "point count %d out of range", n)
	}
	p := grouplay.IdentityPerm(n)
	if expr == "" {
		return p, nil
	}

	ast, err := parsePermGrammar.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(grouplay.ErrBadPermExpr, err.Error())
	}

	var seen [grouplay.MaxPoints]bool
	for _, cyc := range ast.Cycles {
		for i, pt := range cyc.Points {
			if pt < 1 || pt > n {
				return nil, errors.Wrapf(grouplay.ErrBadPermExpr, "point %d out of range 1..%d", pt, n)
			}
			if seen[pt-1] {
				return nil, errors.Wrapf(grouplay.ErrBadPermExpr, "point %d appears twice", pt)
			}
			seen[pt-1] = true
			next := cyc.Points[(i+1)%len(cyc.Points)]
			p[pt-1] = byte(next - 1)
		}
	}
	return p, nil
}
