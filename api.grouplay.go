package grouplay

// ElemID is the index of a group element within its level's automorphism set.
// Element ids are assigned in the order the level data lists its automorphisms
// and stay stable for the lifetime of a session.
type ElemID uint16

// Color is a per-node label that a structure-preserving permutation must respect.
type Color string

// GraphDef describes a labeled graph: Colors[i] is the color tag of node i
// (the node count is len(Colors)), and Edges lists its typed edges.
type GraphDef struct {
	Colors []Color
	Edges  []EdgeDef
}

// EdgeDef is one edge of a labeled graph. From and To are zero-based node
// indices. Type is an opaque tag; the image of an edge must carry the same tag.
type EdgeDef struct {
	From     int
	To       int
	Type     string
	Directed bool
}

// AutoDef is one automorphism entry supplied by level data.
// When Perm is nil, Cycles is parsed (one-based cycle notation, "" for identity).
type AutoDef struct {
	Sym       string // stable symbolic identifier, e.g. "r2"
	Name      string // display name
	Cycles    string
	Perm      Perm
	Generator bool
}

// SubgroupDef is a target subgroup declared by level data, referenced by the
// Syms of its members. Normal, QuotientOrder and IsoLabel are optional
// pre-computed metadata cross-checked against the engine's own computation.
type SubgroupDef struct {
	Name          string
	Members       []string
	Normal        *bool
	QuotientOrder int
	IsoLabel      string
}

// SubgroupPolicy governs which target subgroups are offered to the player.
// The zero value excludes the trivial subgroup and the full group and applies
// no display cap.
type SubgroupPolicy struct {
	IncludeTrivial bool
	IncludeFull    bool

	// MaxOffered caps the number of offered subgroups; 0 means uncapped.
	// When the cap applies, selection is deterministic: candidates are ordered
	// by subgroup order and picked favoring diversity of isomorphism type.
	MaxOffered int
}

// LevelDef is the full level input contract: a labeled graph plus its
// automorphism set and optional target-subgroup metadata.
// When Graph is nil, GraphExpr is parsed instead.
type LevelDef struct {
	ID        string
	Title     string
	GraphExpr string
	Graph     *GraphDef
	Autos     []AutoDef
	Targets   []SubgroupDef
	Policy    SubgroupPolicy
}

// Elem is one element of a verified automorphism group.
type Elem struct {
	ID        ElemID
	Sym       string
	Name      string
	Perm      Perm
	Generator bool
	Order     int
}

// Verdict is the structure-preservation result for a candidate permutation.
// A failed check is data, not an error: the diagnostics drive player feedback.
type Verdict struct {
	Valid           bool
	ColorMismatches []ColorMismatch
	EdgeFaults      []EdgeFault
}

// ColorMismatch reports a node whose image carries a different color.
type ColorMismatch struct {
	Node  int
	Image int
	Want  Color
	Got   Color
}

type EdgeFaultKind int32

const (
	EdgeMissing   EdgeFaultKind = iota + 1 // image edge absent
	EdgeWrongType                          // image edge present with a different type tag
	EdgeReversed                           // directed image edge present only in the opposite direction
)

// EdgeFault reports an edge whose image violates the graph structure.
type EdgeFault struct {
	Edge EdgeDef
	Kind EdgeFaultKind
}

// SubgroupID identifies an accepted subgroup within a session, in order of acceptance.
type SubgroupID int32

type RejectReason int32

const (
	RejectNone      RejectReason = iota
	MissingIdentity              // candidate set lacks the identity element
	NotClosed                    // some product of two members falls outside the set
	Duplicate                    // same unordered id-set was already accepted this stage
)

// SubgroupOutcome is the result of finalizing a subgroup candidate.
type SubgroupOutcome struct {
	Accepted bool
	Reason   RejectReason
	Subgroup SubgroupID // valid only when Accepted
}

// Normality is the tri-state classification of an accepted subgroup.
// Once a subgroup leaves Unclassified the record is terminal.
type Normality int32

const (
	Unclassified Normality = iota
	Normal
	NonNormal
)

// ConjWitness is a conjugation counterexample: Conj = G*H*G⁻¹ lies outside the subgroup.
type ConjWitness struct {
	G    ElemID `json:"g"`
	H    ElemID `json:"h"`
	Conj ElemID `json:"conj"`
}

// ConjResult is the outcome of a single interactive conjugation probe.
type ConjResult struct {
	Result          ElemID
	StaysInSubgroup bool
}

// NormalVerdict answers a player's claim that a subgroup is normal.
// Correct is true iff the subgroup really is normal; otherwise Witness holds
// the first counterexample under the engine's fixed iteration order.
type NormalVerdict struct {
	Correct bool
	Witness *ConjWitness
}

// QuotientInfo is a constructed and verified quotient group.
// Cosets are listed in the order the partition scan discovers them;
// Cosets[IdentityCoset] is the subgroup itself. Reps[i] is the
// lexicographically-first member of Cosets[i] (by element id) and Table is
// the coset-index multiplication table.
type QuotientInfo struct {
	Order         int
	Reps          []ElemID
	Cosets        [][]ElemID
	Table         [][]int
	IdentityCoset int
	IsoLabel      string
	Verified      bool
}

// OfferedSubgroup is one entry of the filtered task list for the subgroup stage.
type OfferedSubgroup struct {
	Name     string
	Members  []ElemID
	IsoLabel string
	Normal   bool
}

// StageKind sequences the puzzle stages built on one level's group.
type StageKind int32

const (
	StageDiscover  StageKind = iota + 1 // find every automorphism
	StageSubgroups                      // accept every offered subgroup
	StageQuotients                      // build a quotient for every offered normal subgroup
	StageDone
)

// ProgressInfo reports task completion within the current stage.
type ProgressInfo struct {
	Done  int
	Total int
}

type EventKind int32

const (
	EvAutomorphismFound EventKind = iota + 1
	EvSubgroupAccepted
	EvSubgroupRejected
	EvWitnessFound
	EvNormalCertified
	EvQuotientBuilt
	EvStageComplete
)

// Event is a discrete domain notification delivered to the session observer.
// Fields beyond Kind and Stage are populated per event kind.
type Event struct {
	Kind     EventKind
	Stage    StageKind
	Elem     ElemID
	Subgroup SubgroupID
	Reason   RejectReason
	Witness  *ConjWitness
}

// SessionOpts specifies params for creating a level session.
type SessionOpts struct {
	// OnEvent, when set, receives every domain event the session emits.
	// Delivery is synchronous and in order; the callback must not call back
	// into the session.
	OnEvent func(Event)
}

// Session is one active level's algebra engine.
//
// A session is exclusively owned by the controller that drives the level;
// it performs no internal locking and concurrent mutation is undefined.
type Session interface {

	// Level returns the level definition this session was created from.
	Level() *LevelDef

	// GroupOrder returns |G|, the size of the automorphism set.
	GroupOrder() int

	// Elems returns the verified automorphism group in element-id order.
	Elems() []Elem

	// Identity returns the id of the identity element.
	Identity() ElemID

	// Product returns the id of a*b (b applied first) from the cached
	// Cayley table.
	Product(a, b ElemID) (ElemID, error)

	Stage() StageKind
	Progress() ProgressInfo
	StageComplete() bool

	// OfferedSubgroups returns the policy-filtered subgroup task list.
	OfferedSubgroups() []OfferedSubgroup

	// EligibleSubgroupCount returns the true number of eligible target
	// subgroups before the display cap was applied.
	EligibleSubgroupCount() int

	// ValidateCandidate checks a player-submitted arrangement against the
	// level graph. A failed check returns a diagnostic Verdict, not an error;
	// a malformed permutation fails hard with ErrInvalidPerm.
	ValidateCandidate(p Perm) (Verdict, error)

	// TryAcceptSubgroup finalizes a candidate element set.
	// Rejection (missing identity, not closed, duplicate) is an expected
	// outcome returned in the SubgroupOutcome, never an error.
	TryAcceptSubgroup(name string, members []ElemID) (SubgroupOutcome, error)

	// TestConjugation computes g*h*g⁻¹ for a member h of the given accepted
	// subgroup and reports whether the result stays inside it.
	TestConjugation(sub SubgroupID, g, h ElemID) (ConjResult, error)

	// ClaimNormal answers the player's claim that the subgroup is normal,
	// classifying it first if still unclassified. The record is terminal:
	// repeated claims return the already-computed verdict.
	ClaimNormal(sub SubgroupID) (NormalVerdict, error)

	// ConstructQuotient partitions G into cosets of a certified-normal
	// subgroup and returns the verified quotient group.
	// Fails with ErrSubgroupState unless the subgroup is classified Normal.
	ConstructQuotient(sub SubgroupID) (*QuotientInfo, error)

	// CrossCheck recomputes every classification the level data declares
	// (target normality, quotient order, iso label) and fails with
	// ErrLevelMismatch on the first disagreement.
	CrossCheck() error

	// Snapshot exports the flat serializable session state consumed by the
	// external save-state layer.
	Snapshot() *SessionSnapshot
}

// SessionSnapshot is the flat save-state image of a session.
type SessionSnapshot struct {
	LevelID    string             `json:"level_id"`
	Discovered []ElemID           `json:"discovered,omitempty"`
	Subgroups  []SubgroupSnapshot `json:"subgroups,omitempty"`
}

// SubgroupSnapshot captures one accepted subgroup with its terminal records.
type SubgroupSnapshot struct {
	Name      string       `json:"name,omitempty"`
	Members   []ElemID     `json:"members"`
	Normality Normality    `json:"normality"`
	Witness   *ConjWitness `json:"witness,omitempty"`
	Quotient  bool         `json:"quotient,omitempty"`
}

// ProgressStore persists session snapshots keyed by level id.
type ProgressStore interface {

	// SaveSnapshot writes the snapshot for its level, replacing any previous one.
	SaveSnapshot(snap *SessionSnapshot) error

	// LoadSnapshot returns the stored snapshot for a level, or ErrSnapshotNotFound.
	LoadSnapshot(levelID string) (*SessionSnapshot, error)

	Close() error
}
