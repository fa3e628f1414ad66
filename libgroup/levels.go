package libgroup

import "github.com/ludic-systems/grouplay"

// Built-in demo levels. Real levels arrive through the external loader; these
// cover the classic starter groups and double as fixtures for cmd and tests.

func boolPtr(v bool) *bool { return &v }

// TriangleLevel is the undirected triangle: its automorphism group is S3.
// The rotation subgroup is normal; each single-reflection subgroup is not.
func TriangleLevel() *grouplay.LevelDef {
	return &grouplay.LevelDef{
		ID:        "triangle",
		Title:     "Triangle",
		GraphExpr: "1-2-3-1",
		Autos: []grouplay.AutoDef{
			{Sym: "e", Name: "identity", Cycles: ""},
			{Sym: "r", Name: "rotate", Cycles: "(1 2 3)", Generator: true},
			{Sym: "r2", Name: "rotate twice", Cycles: "(1 3 2)"},
			{Sym: "s1", Name: "flip across 1", Cycles: "(2 3)", Generator: true},
			{Sym: "s2", Name: "flip across 2", Cycles: "(1 3)"},
			{Sym: "s3", Name: "flip across 3", Cycles: "(1 2)"},
		},
		Targets: []grouplay.SubgroupDef{
			{Name: "rotations", Members: []string{"e", "r", "r2"}, Normal: boolPtr(true), QuotientOrder: 2, IsoLabel: "C3"},
			{Name: "flip-1", Members: []string{"e", "s1"}, Normal: boolPtr(false), IsoLabel: "C2"},
			{Name: "flip-2", Members: []string{"e", "s2"}, Normal: boolPtr(false), IsoLabel: "C2"},
			{Name: "flip-3", Members: []string{"e", "s3"}, Normal: boolPtr(false), IsoLabel: "C2"},
		},
	}
}

// SpinnerLevel is the directed triangle: only the three rotations survive,
// giving the cyclic group Z3. Prime order, so there are no eligible
// subgroups and the subgroup stage auto-completes.
func SpinnerLevel() *grouplay.LevelDef {
	return &grouplay.LevelDef{
		ID:        "spinner",
		Title:     "Spinner",
		GraphExpr: "1>2,2>3,3>1",
		Autos: []grouplay.AutoDef{
			{Sym: "e", Name: "identity", Cycles: ""},
			{Sym: "r", Name: "spin", Cycles: "(1 2 3)", Generator: true},
			{Sym: "r2", Name: "spin twice", Cycles: "(1 3 2)"},
		},
	}
}

// SquareLevel is the undirected square: its automorphism group is D4.
// The rotation subgroup and both order-4 subgroups containing the center are
// normal; the pure single-reflection subgroups are not. The quotient by the
// center is the Klein four-group.
func SquareLevel() *grouplay.LevelDef {
	return &grouplay.LevelDef{
		ID:        "square",
		Title:     "Square",
		GraphExpr: "1-2-3-4-1",
		Autos: []grouplay.AutoDef{
			{Sym: "e", Name: "identity", Cycles: ""},
			{Sym: "r", Name: "quarter turn", Cycles: "(1 2 3 4)", Generator: true},
			{Sym: "r2", Name: "half turn", Cycles: "(1 3)(2 4)"},
			{Sym: "r3", Name: "three-quarter turn", Cycles: "(1 4 3 2)"},
			{Sym: "d1", Name: "diagonal flip", Cycles: "(2 4)", Generator: true},
			{Sym: "d2", Name: "anti-diagonal flip", Cycles: "(1 3)"},
			{Sym: "m1", Name: "horizontal flip", Cycles: "(1 2)(3 4)"},
			{Sym: "m2", Name: "vertical flip", Cycles: "(1 4)(2 3)"},
		},
		Targets: []grouplay.SubgroupDef{
			{Name: "rotations", Members: []string{"e", "r", "r2", "r3"}, Normal: boolPtr(true), QuotientOrder: 2, IsoLabel: "C4"},
			{Name: "center", Members: []string{"e", "r2"}, Normal: boolPtr(true), QuotientOrder: 4, IsoLabel: "C2"},
			{Name: "diagonals", Members: []string{"e", "r2", "d1", "d2"}, Normal: boolPtr(true), QuotientOrder: 2, IsoLabel: "V4"},
			{Name: "mirrors", Members: []string{"e", "r2", "m1", "m2"}, Normal: boolPtr(true), QuotientOrder: 2, IsoLabel: "V4"},
			{Name: "diagonal-only", Members: []string{"e", "d1"}, Normal: boolPtr(false), IsoLabel: "C2"},
			{Name: "mirror-only", Members: []string{"e", "m1"}, Normal: boolPtr(false), IsoLabel: "C2"},
		},
	}
}

// BeaconLevel is a path with distinct endpoint colors: nothing can move, so
// the automorphism group is trivial and every stage auto-completes at setup.
func BeaconLevel() *grouplay.LevelDef {
	return &grouplay.LevelDef{
		ID:        "beacon",
		Title:     "Beacon",
		GraphExpr: "1:red-2:gray-3:blue",
		Autos: []grouplay.AutoDef{
			{Sym: "e", Name: "identity", Cycles: ""},
		},
	}
}

// DemoLevels returns every built-in level keyed by id.
func DemoLevels() map[string]*grouplay.LevelDef {
	out := map[string]*grouplay.LevelDef{}
	for _, def := range []*grouplay.LevelDef{
		TriangleLevel(), SpinnerLevel(), SquareLevel(), BeaconLevel(),
	} {
		out[def.ID] = def
	}
	return out
}
