package libgroup

import (
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

type edgeKey struct {
	from, to int
}

type edgeEntry struct {
	typ      string
	directed bool
}

// LabeledGraph is an immutable labeled graph built once per level.
// Its only job is structure testing: deciding whether a permutation of its
// nodes preserves adjacency, per-node colors, and per-edge type and direction.
type LabeledGraph struct {
	colors []grouplay.Color
	edges  []grouplay.EdgeDef
	index  map[edgeKey]edgeEntry
}

// NewLabeledGraph validates a GraphDef and builds its edge lookup index.
func NewLabeledGraph(def *grouplay.GraphDef) (*LabeledGraph, error) {
	if def == nil || len(def.Colors) == 0 {
		return nil, errors.Wrap(grouplay.ErrBadGraphDef, "graph has no nodes")
	}
	if len(def.Colors) > grouplay.MaxPoints {
		return nil, errors.Wrapf(grouplay.ErrBadGraphDef, "graph exceeds %d nodes", grouplay.MaxPoints)
	}

	g := &LabeledGraph{
		colors: append([]grouplay.Color{}, def.Colors...),
		edges:  make([]grouplay.EdgeDef, 0, len(def.Edges)),
		index:  make(map[edgeKey]edgeEntry, 2*len(def.Edges)),
	}

	n := len(g.colors)
	for _, e := range def.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, errors.Wrapf(grouplay.ErrBadGraphDef, "edge %d-%d out of node range", e.From, e.To)
		}
		if e.From == e.To {
			return nil, errors.Wrapf(grouplay.ErrBadGraphDef, "self edge at node %d", e.From)
		}
		if e.Type == "" {
			e.Type = "-"
		}
		if _, dup := g.index[edgeKey{e.From, e.To}]; dup {
			return nil, errors.Wrapf(grouplay.ErrBadGraphDef, "duplicate edge %d-%d", e.From, e.To)
		}
		entry := edgeEntry{typ: e.Type, directed: e.Directed}
		g.index[edgeKey{e.From, e.To}] = entry
		if !e.Directed {
			if _, dup := g.index[edgeKey{e.To, e.From}]; dup {
				return nil, errors.Wrapf(grouplay.ErrBadGraphDef, "duplicate edge %d-%d", e.To, e.From)
			}
			g.index[edgeKey{e.To, e.From}] = entry
		}
		g.edges = append(g.edges, e)
	}

	return g, nil
}

// NumNodes returns the node count.
func (g *LabeledGraph) NumNodes() int {
	return len(g.colors)
}

// Color returns the color tag of node i.
func (g *LabeledGraph) Color(i int) grouplay.Color {
	return g.colors[i]
}

// Edges returns the edge list in definition order.
func (g *LabeledGraph) Edges() []grouplay.EdgeDef {
	return g.edges
}

// CheckPerm tests whether p preserves this graph's structure.
//
// The verdict is data, not an error: on failure it carries every color
// mismatch and edge fault so the caller can render specific feedback.
// p must act on exactly NumNodes points (validate before calling).
func (g *LabeledGraph) CheckPerm(p grouplay.Perm) grouplay.Verdict {
	v := grouplay.Verdict{}

	for i, want := range g.colors {
		img := p.Apply(i)
		if got := g.colors[img]; got != want {
			v.ColorMismatches = append(v.ColorMismatches, grouplay.ColorMismatch{
				Node:  i,
				Image: img,
				Want:  want,
				Got:   got,
			})
		}
	}

	for _, e := range g.edges {
		pu, pv := p.Apply(e.From), p.Apply(e.To)
		entry, found := g.index[edgeKey{pu, pv}]

		switch {
		case found && entry.typ == e.Type && entry.directed == e.Directed:
			continue
		case found:
			v.EdgeFaults = append(v.EdgeFaults, grouplay.EdgeFault{Edge: e, Kind: grouplay.EdgeWrongType})
		default:
			kind := grouplay.EdgeMissing
			if e.Directed {
				if rev, ok := g.index[edgeKey{pv, pu}]; ok && rev.directed && rev.typ == e.Type {
					kind = grouplay.EdgeReversed
				}
			}
			v.EdgeFaults = append(v.EdgeFaults, grouplay.EdgeFault{Edge: e, Kind: kind})
		}
	}

	v.Valid = len(v.ColorMismatches) == 0 && len(v.EdgeFaults) == 0
	return v
}
