package libgroup

import (
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

// session is one active level's algebra engine: the verified automorphism
// group, its cached Cayley table, and every subgroup, normality record and
// quotient created so far. It is exclusively owned by the controller driving
// the level and performs no internal locking.
type session struct {
	def   *grouplay.LevelDef
	graph *LabeledGraph
	elems []grouplay.Elem
	ct    *CayleyTable

	discovered      []bool
	discoveredCount int

	targets   []*offeredTarget // policy-filtered, in offering order
	trueTotal int              // eligible targets before the display cap

	subgroups *subgroupRegistry

	stage   grouplay.StageKind
	onEvent func(grouplay.Event)
	muted   bool // suppress events during snapshot restore
}

// NewSession verifies the level data and builds the session.
//
// Setup fails hard on corrupt level data: malformed permutations, an
// automorphism list that is not structure-preserving or not a group, or a
// declared target that is not a subgroup. A session that opens is consistent.
func NewSession(def *grouplay.LevelDef, opts grouplay.SessionOpts) (grouplay.Session, error) {
	s, err := newSession(def, opts)
	if err != nil {
		return nil, err
	}
	s.advanceStages()
	return s, nil
}

func newSession(def *grouplay.LevelDef, opts grouplay.SessionOpts) (*session, error) {
	if def == nil || len(def.Autos) == 0 {
		return nil, errors.Wrap(grouplay.ErrBadLevelDef, "level has no automorphism list")
	}

	graphDef := def.Graph
	if graphDef == nil {
		parsed, err := ParseGraphExpr(def.GraphExpr)
		if err != nil {
			return nil, err
		}
		graphDef = parsed
	}
	graph, err := NewLabeledGraph(graphDef)
	if err != nil {
		return nil, err
	}

	n := graph.NumNodes()
	perms := make([]grouplay.Perm, len(def.Autos))
	for i, a := range def.Autos {
		p := a.Perm
		if p == nil {
			p, err = ParsePerm(n, a.Cycles)
			if err != nil {
				return nil, errors.Wrapf(err, "automorphism %q", a.Sym)
			}
		}
		if err = p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "automorphism %q", a.Sym)
		}
		if len(p) != n {
			return nil, errors.Wrapf(grouplay.ErrPermSize, "automorphism %q acts on %d points, graph has %d nodes", a.Sym, len(p), n)
		}
		if verdict := graph.CheckPerm(p); !verdict.Valid {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "automorphism %q does not preserve the graph", a.Sym)
		}
		perms[i] = p
	}

	ct, err := BuildCayleyTable(perms)
	if err != nil {
		return nil, errors.Wrap(err, "automorphism list")
	}
	if err = ct.Verify(); err != nil {
		return nil, errors.Wrap(err, "automorphism list")
	}

	s := &session{
		def:        def,
		graph:      graph,
		ct:         ct,
		elems:      make([]grouplay.Elem, len(perms)),
		discovered: make([]bool, len(perms)),
		subgroups:  newSubgroupRegistry(),
		stage:      grouplay.StageDiscover,
		onEvent:    opts.OnEvent,
	}

	symToID := make(map[string]grouplay.ElemID, len(def.Autos))
	for i, a := range def.Autos {
		id := grouplay.ElemID(i)
		if a.Sym == "" {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "automorphism %d has no symbolic id", i)
		}
		if _, dup := symToID[a.Sym]; dup {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "duplicate symbolic id %q", a.Sym)
		}
		symToID[a.Sym] = id
		s.elems[i] = grouplay.Elem{
			ID:        id,
			Sym:       a.Sym,
			Name:      a.Name,
			Perm:      perms[i],
			Generator: a.Generator,
			Order:     ct.ElemOrder(id),
		}
	}

	// The starting arrangement is the identity, so it counts as discovered.
	s.discovered[ct.Identity()] = true
	s.discoveredCount = 1

	// Validate the declared targets and precompute their classification so
	// stage task totals are known before play begins.
	all := make([]*offeredTarget, 0, len(def.Targets))
	for ti := range def.Targets {
		tdef := &def.Targets[ti]
		ids := make([]grouplay.ElemID, 0, len(tdef.Members))
		for _, sym := range tdef.Members {
			id, ok := symToID[sym]
			if !ok {
				return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "target %q references unknown element %q", tdef.Name, sym)
			}
			ids = append(ids, id)
		}
		members, set, ok := canonicalMembers(ids, ct.Order())
		if !ok || len(members) == 0 {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "target %q has no members", tdef.Name)
		}
		if !set[ct.Identity()] {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "target %q lacks the identity", tdef.Name)
		}
		if closed, a, b := ct.SubsetClosed(members, set); !closed {
			return nil, errors.Wrapf(grouplay.ErrBadLevelDef, "target %q is not closed (%d*%d escapes)", tdef.Name, a, b)
		}
		normality, _ := classifyNormality(ct, members, set)
		all = append(all, &offeredTarget{
			def:      tdef,
			members:  members,
			set:      set,
			isoLabel: subgroupIsoLabel(ct, members),
			normal:   normality == grouplay.Normal,
		})
	}
	s.targets, s.trueTotal = selectOffered(all, def.Policy, ct.Order())

	return s, nil
}

func (s *session) emit(ev grouplay.Event) {
	if s.muted || s.onEvent == nil {
		return
	}
	ev.Stage = s.stage
	s.onEvent(ev)
}

// stageTasks returns task progress for a given stage, independent of which
// stage is current.
func (s *session) stageTasks(stage grouplay.StageKind) grouplay.ProgressInfo {
	switch stage {
	case grouplay.StageDiscover:
		return grouplay.ProgressInfo{Done: s.discoveredCount, Total: s.ct.Order()}
	case grouplay.StageSubgroups:
		done := 0
		for _, t := range s.targets {
			if t.matched {
				done++
			}
		}
		return grouplay.ProgressInfo{Done: done, Total: len(s.targets)}
	case grouplay.StageQuotients:
		done, total := 0, 0
		for _, t := range s.targets {
			if !t.normal {
				continue
			}
			total++
			if t.quotient {
				done++
			}
		}
		return grouplay.ProgressInfo{Done: done, Total: total}
	}
	return grouplay.ProgressInfo{}
}

// advanceStages walks the stage sequence forward past every stage whose task
// list is complete, emitting a stage-complete event for each. A stage with
// zero tasks (prime-order group, no normal targets) auto-completes here; that
// is a correct outcome, not an error.
func (s *session) advanceStages() {
	for s.stage != grouplay.StageDone {
		p := s.stageTasks(s.stage)
		if p.Done < p.Total {
			return
		}
		s.emit(grouplay.Event{Kind: grouplay.EvStageComplete})
		switch s.stage {
		case grouplay.StageDiscover:
			s.stage = grouplay.StageSubgroups
		case grouplay.StageSubgroups:
			s.stage = grouplay.StageQuotients
		case grouplay.StageQuotients:
			s.stage = grouplay.StageDone
		}
	}
}

func (s *session) Level() *grouplay.LevelDef { return s.def }
func (s *session) GroupOrder() int           { return s.ct.Order() }
func (s *session) Identity() grouplay.ElemID { return s.ct.Identity() }
func (s *session) Stage() grouplay.StageKind { return s.stage }

func (s *session) Product(a, b grouplay.ElemID) (grouplay.ElemID, error) {
	if int(a) >= s.ct.Order() || int(b) >= s.ct.Order() {
		return 0, grouplay.ErrUnknownElem
	}
	return s.ct.Product(a, b), nil
}

func (s *session) Elems() []grouplay.Elem {
	out := make([]grouplay.Elem, len(s.elems))
	copy(out, s.elems)
	return out
}

func (s *session) Progress() grouplay.ProgressInfo {
	if s.stage == grouplay.StageDone {
		return grouplay.ProgressInfo{}
	}
	return s.stageTasks(s.stage)
}

func (s *session) StageComplete() bool {
	if s.stage == grouplay.StageDone {
		return true
	}
	p := s.stageTasks(s.stage)
	return p.Done >= p.Total
}

func (s *session) OfferedSubgroups() []grouplay.OfferedSubgroup {
	out := make([]grouplay.OfferedSubgroup, len(s.targets))
	for i, t := range s.targets {
		out[i] = grouplay.OfferedSubgroup{
			Name:     t.def.Name,
			Members:  append([]grouplay.ElemID{}, t.members...),
			IsoLabel: t.isoLabel,
			Normal:   t.normal,
		}
	}
	return out
}

func (s *session) EligibleSubgroupCount() int {
	return s.trueTotal
}

func (s *session) ValidateCandidate(p grouplay.Perm) (grouplay.Verdict, error) {
	if err := p.Validate(); err != nil {
		return grouplay.Verdict{}, err
	}
	if len(p) != s.graph.NumNodes() {
		return grouplay.Verdict{}, errors.Wrapf(grouplay.ErrPermSize, "candidate acts on %d points, graph has %d nodes", len(p), s.graph.NumNodes())
	}

	verdict := s.graph.CheckPerm(p)
	if !verdict.Valid {
		return verdict, nil
	}

	id, ok := s.ct.Lookup(p)
	if !ok {
		// The level claims a complete automorphism set; a structure-preserving
		// permutation outside it means the level data is wrong.
		return grouplay.Verdict{}, errors.Wrapf(grouplay.ErrUnknownElem, "valid automorphism %s missing from level data", p)
	}

	if !s.discovered[id] {
		s.discovered[id] = true
		s.discoveredCount++
		s.emit(grouplay.Event{Kind: grouplay.EvAutomorphismFound, Elem: id})
		s.advanceStages()
	}
	return verdict, nil
}

func (s *session) TryAcceptSubgroup(name string, ids []grouplay.ElemID) (grouplay.SubgroupOutcome, error) {
	members, set, ok := canonicalMembers(ids, s.ct.Order())
	if !ok {
		return grouplay.SubgroupOutcome{}, errors.Wrap(grouplay.ErrUnknownElem, "subgroup candidate")
	}

	reject := func(reason grouplay.RejectReason) (grouplay.SubgroupOutcome, error) {
		s.emit(grouplay.Event{Kind: grouplay.EvSubgroupRejected, Reason: reason})
		return grouplay.SubgroupOutcome{Accepted: false, Reason: reason}, nil
	}

	if len(members) == 0 || !set[s.ct.Identity()] {
		return reject(grouplay.MissingIdentity)
	}
	if closed, _, _ := s.ct.SubsetClosed(members, set); !closed {
		return reject(grouplay.NotClosed)
	}
	if _, dup := s.subgroups.lookup(members); dup {
		return reject(grouplay.Duplicate)
	}

	sub := &subgroupState{
		name:    name,
		members: members,
		set:     set,
	}
	s.subgroups.insert(sub)

	for _, t := range s.targets {
		if !t.matched && memberSetComparator(t.members, members) == 0 {
			t.matched = true
			break
		}
	}

	s.emit(grouplay.Event{Kind: grouplay.EvSubgroupAccepted, Subgroup: sub.id})
	s.advanceStages()
	return grouplay.SubgroupOutcome{Accepted: true, Subgroup: sub.id}, nil
}

func (s *session) TestConjugation(id grouplay.SubgroupID, g, h grouplay.ElemID) (grouplay.ConjResult, error) {
	sub, ok := s.subgroups.get(id)
	if !ok {
		return grouplay.ConjResult{}, grouplay.ErrUnknownSubgroup
	}
	if int(g) >= s.ct.Order() || int(h) >= s.ct.Order() {
		return grouplay.ConjResult{}, grouplay.ErrUnknownElem
	}
	if !sub.contains(h) {
		return grouplay.ConjResult{}, errors.Wrapf(grouplay.ErrNotInSubgroup, "element %d", h)
	}

	c := s.ct.Conjugate(g, h)
	stays := sub.contains(c)
	if !stays {
		s.emit(grouplay.Event{
			Kind:     grouplay.EvWitnessFound,
			Subgroup: sub.id,
			Witness:  &grouplay.ConjWitness{G: g, H: h, Conj: c},
		})
	}
	return grouplay.ConjResult{Result: c, StaysInSubgroup: stays}, nil
}

func (s *session) ClaimNormal(id grouplay.SubgroupID) (grouplay.NormalVerdict, error) {
	sub, ok := s.subgroups.get(id)
	if !ok {
		return grouplay.NormalVerdict{}, grouplay.ErrUnknownSubgroup
	}

	if sub.normality == grouplay.Unclassified {
		normality, witness := classifyNormality(s.ct, sub.members, sub.set)
		sub.normality = normality
		sub.witness = witness
		if normality == grouplay.Normal {
			s.emit(grouplay.Event{Kind: grouplay.EvNormalCertified, Subgroup: sub.id})
		} else {
			s.emit(grouplay.Event{Kind: grouplay.EvWitnessFound, Subgroup: sub.id, Witness: witness})
		}
	}

	return grouplay.NormalVerdict{
		Correct: sub.normality == grouplay.Normal,
		Witness: sub.witness,
	}, nil
}

func (s *session) ConstructQuotient(id grouplay.SubgroupID) (*grouplay.QuotientInfo, error) {
	sub, ok := s.subgroups.get(id)
	if !ok {
		return nil, grouplay.ErrUnknownSubgroup
	}
	switch sub.normality {
	case grouplay.Normal:
	case grouplay.Unclassified:
		return nil, errors.Wrap(grouplay.ErrSubgroupState, "subgroup is unclassified")
	default:
		return nil, errors.Wrap(grouplay.ErrSubgroupState, "subgroup is not normal")
	}

	if sub.quotient != nil {
		return sub.quotient, nil
	}

	q, err := buildQuotient(s.ct, sub.members, sub.set)
	if err != nil {
		return nil, err
	}
	sub.quotient = q

	for _, t := range s.targets {
		if t.normal && !t.quotient && memberSetComparator(t.members, sub.members) == 0 {
			t.quotient = true
			break
		}
	}

	s.emit(grouplay.Event{Kind: grouplay.EvQuotientBuilt, Subgroup: sub.id})
	s.advanceStages()
	return q, nil
}

// CrossCheck recomputes every classification the level data declares and
// fails with ErrLevelMismatch on the first disagreement. Controllers run it
// after setup as a data-integrity gate on hand-authored level metadata.
func (s *session) CrossCheck() error {
	for _, t := range s.targets {
		if t.def.Normal != nil && *t.def.Normal != t.normal {
			return errors.Wrapf(grouplay.ErrLevelMismatch,
				"target %q: declared normal=%v, computed %v", t.def.Name, *t.def.Normal, t.normal)
		}
		if t.def.IsoLabel != "" && t.def.IsoLabel != t.isoLabel {
			return errors.Wrapf(grouplay.ErrLevelMismatch,
				"target %q: declared iso type %q, computed %q", t.def.Name, t.def.IsoLabel, t.isoLabel)
		}
		if t.def.QuotientOrder > 0 {
			if !t.normal {
				return errors.Wrapf(grouplay.ErrLevelMismatch,
					"target %q: declared a quotient order but is not normal", t.def.Name)
			}
			if want, got := t.def.QuotientOrder, s.ct.Order()/len(t.members); want != got {
				return errors.Wrapf(grouplay.ErrLevelMismatch,
					"target %q: declared quotient order %d, computed %d", t.def.Name, want, got)
			}
		}
	}
	return nil
}

func (s *session) Snapshot() *grouplay.SessionSnapshot {
	snap := &grouplay.SessionSnapshot{
		LevelID: s.def.ID,
	}
	for id, found := range s.discovered {
		if found {
			snap.Discovered = append(snap.Discovered, grouplay.ElemID(id))
		}
	}
	for _, sub := range s.subgroups.byID {
		snap.Subgroups = append(snap.Subgroups, grouplay.SubgroupSnapshot{
			Name:      sub.name,
			Members:   append([]grouplay.ElemID{}, sub.members...),
			Normality: sub.normality,
			Witness:   sub.witness,
			Quotient:  sub.quotient != nil,
		})
	}
	return snap
}

// NewSessionFromSnapshot rebuilds a session by replaying a snapshot against
// the level data, with events suppressed. Restore fails with ErrBadSnapshot
// if the snapshot disagrees with what the engine recomputes, since that means
// the snapshot belongs to different level data.
func NewSessionFromSnapshot(def *grouplay.LevelDef, snap *grouplay.SessionSnapshot, opts grouplay.SessionOpts) (grouplay.Session, error) {
	if snap == nil {
		return nil, errors.Wrap(grouplay.ErrBadSnapshot, "nil snapshot")
	}
	s, err := newSession(def, opts)
	if err != nil {
		return nil, err
	}
	if snap.LevelID != def.ID {
		return nil, errors.Wrapf(grouplay.ErrBadSnapshot, "snapshot is for level %q, not %q", snap.LevelID, def.ID)
	}

	s.muted = true
	defer func() { s.muted = false }()

	for _, id := range snap.Discovered {
		if int(id) >= s.ct.Order() {
			return nil, errors.Wrapf(grouplay.ErrBadSnapshot, "discovered element %d out of range", id)
		}
		if !s.discovered[id] {
			s.discovered[id] = true
			s.discoveredCount++
		}
	}

	for _, ss := range snap.Subgroups {
		outcome, err := s.TryAcceptSubgroup(ss.Name, ss.Members)
		if err != nil {
			return nil, errors.Wrap(grouplay.ErrBadSnapshot, err.Error())
		}
		if !outcome.Accepted {
			return nil, errors.Wrapf(grouplay.ErrBadSnapshot, "stored subgroup %q no longer accepted (%d)", ss.Name, outcome.Reason)
		}
		if ss.Normality != grouplay.Unclassified {
			verdict, err := s.ClaimNormal(outcome.Subgroup)
			if err != nil {
				return nil, err
			}
			computed := grouplay.NonNormal
			if verdict.Correct {
				computed = grouplay.Normal
			}
			if computed != ss.Normality {
				return nil, errors.Wrapf(grouplay.ErrBadSnapshot, "stored subgroup %q normality disagrees with recomputation", ss.Name)
			}
		}
		if ss.Quotient {
			if _, err := s.ConstructQuotient(outcome.Subgroup); err != nil {
				return nil, errors.Wrap(grouplay.ErrBadSnapshot, err.Error())
			}
		}
	}

	s.advanceStages()
	return s, nil
}
