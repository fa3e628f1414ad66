package grouplay

import (
	"strconv"
	"strings"
)

const (
	// MaxPoints is the max number of points a Perm may act on (a point index must fit in a byte).
	MaxPoints = 256
)

// Perm is a bijection on {0..n-1}, stored as its image sequence: Perm[i] is the image of point i.
//
// Perm values are immutable once created; every operation returns a new value.
// Two permutations are equal iff their image sequences are equal (see Equal).
type Perm []byte

// NewPerm validates the given image sequence and returns it as a Perm.
func NewPerm(images []byte) (Perm, error) {
	p := Perm(images)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// IdentityPerm returns the identity permutation on n points.
func IdentityPerm(n int) Perm {
	p := make(Perm, n)
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

// Validate returns ErrInvalidPerm unless this Perm is a well-formed bijection.
func (a Perm) Validate() error {
	if len(a) == 0 || len(a) > MaxPoints {
		return ErrInvalidPerm
	}
	var seen [MaxPoints]bool
	for _, ai := range a {
		if int(ai) >= len(a) || seen[ai] {
			return ErrInvalidPerm
		}
		seen[ai] = true
	}
	return nil
}

// IsIdentity returns true if every point maps to itself.
func (a Perm) IsIdentity() bool {
	for i, ai := range a {
		if int(ai) != i {
			return false
		}
	}
	return true
}

// Apply returns the image of point i under this permutation.
func (a Perm) Apply(i int) int {
	return int(a[i])
}

// Compose returns the product a*b: the permutation that applies b first, then a.
//
// This right-to-left convention is fixed across the engine; conjugation and
// quotient construction depend on it (see Conjugate).
// Both permutations must act on the same number of points; validate externally
// supplied values before composing them.
func (a Perm) Compose(b Perm) Perm {
	if len(a) != len(b) {
		panic("compose: permutation size mismatch")
	}
	out := make(Perm, len(a))
	for i, bi := range b {
		out[i] = a[bi]
	}
	return out
}

// Invert returns the inverse permutation.
func (a Perm) Invert() Perm {
	out := make(Perm, len(a))
	for i, ai := range a {
		out[ai] = byte(i)
	}
	return out
}

// Conjugate returns a*b*a⁻¹, the conjugate of b by a.
func (a Perm) Conjugate(b Perm) Perm {
	return a.Compose(b).Compose(a.Invert())
}

// Order returns the smallest k >= 1 with a^k equal to the identity.
// Returns 0 for a malformed Perm (for which no such k need exist).
func (a Perm) Order() int {
	if a.Validate() != nil {
		return 0
	}
	k := 1
	for p := a; !p.IsIdentity(); k++ {
		p = p.Compose(a)
	}
	return k
}

// Equal returns true if both permutations have the same image sequence.
func (a Perm) Equal(b Perm) bool {
	if len(a) != len(b) {
		return false
	}
	for i, ai := range a {
		if ai != b[i] {
			return false
		}
	}
	return true
}

// Key returns the exact-match lookup key for this Perm.
// Perms with equal image sequences share a key and no others do.
func (a Perm) Key() string {
	return string(a)
}

// Clone returns a copy that shares no storage with this Perm.
func (a Perm) Clone() Perm {
	out := make(Perm, len(a))
	copy(out, a)
	return out
}

// String renders this Perm in one-based cycle notation, e.g. "(1 2 3)(4 5)".
// The identity renders as "()".
func (a Perm) String() string {
	var b strings.Builder
	var seen [MaxPoints]bool
	for i := range a {
		if seen[i] || int(a[i]) == i {
			continue
		}
		b.WriteByte('(')
		for j := i; !seen[j]; j = int(a[j]) {
			seen[j] = true
			if j != i {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(j + 1))
		}
		b.WriteByte(')')
	}
	if b.Len() == 0 {
		return "()"
	}
	return b.String()
}
