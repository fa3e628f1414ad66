package grouplay

import "errors"

// Errors
var (
	ErrInvalidPerm      = errors.New("malformed or non-bijective permutation")
	ErrPermSize         = errors.New("permutation acts on the wrong number of points")
	ErrBadGraphDef      = errors.New("bad graph definition")
	ErrBadGraphExpr     = errors.New("bad graph expression")
	ErrBadPermExpr      = errors.New("bad permutation expression")
	ErrBadLevelDef      = errors.New("bad level definition")
	ErrNotAGroup        = errors.New("element set does not satisfy the group axioms")
	ErrUnknownElem      = errors.New("element is not a member of the group")
	ErrUnknownSubgroup  = errors.New("unknown subgroup id")
	ErrNotInSubgroup    = errors.New("element is not a member of the subgroup")
	ErrSubgroupState    = errors.New("subgroup is not in a valid state for this operation")
	ErrLevelMismatch    = errors.New("level metadata disagrees with computed classification")
	ErrBadSnapshot      = errors.New("snapshot does not match level data")
	ErrSnapshotNotFound = errors.New("no snapshot stored for this level")
	ErrBadStoreParam    = errors.New("bad progress store param")
)
