// Package term implements the hash-consed term DAG of spec.md §3-§4.1: a
// table of Boolean and bit-vector terms identified by a 31-bit index plus
// a polarity bit, with structural hash consing and mark-and-sweep GC.
package term

// Index identifies a term in the table. Index 0 is reserved; index 1 is
// the predefined Boolean constant `true` (spec.md §3).
type Index uint32

// ReservedIndex is never assigned to a live term.
const ReservedIndex Index = 0

// TrueIndex is the predefined Boolean constant `true`.
const TrueIndex Index = 1

// Occ is a term occurrence: a 32-bit value packing a 31-bit term index and
// a 1-bit polarity (spec.md §3, Glossary). For a Boolean term index i, the
// two occurrences are (i<<1) and (i<<1)|1. Non-Boolean terms only ever
// have the positive occurrence.
type Occ uint32

// TrueOcc and FalseOcc are the two occurrences of the predefined `true`
// term -- occurrences 2 and 3 per spec.md §3.
const (
	TrueOcc  Occ = Occ(TrueIndex) << 1
	FalseOcc Occ = TrueOcc | 1
)

// MkOcc packs an index and polarity bit into an occurrence.
func MkOcc(idx Index, negated bool) Occ {
	o := Occ(idx) << 1
	if negated {
		o |= 1
	}
	return o
}

// Index extracts the term index from an occurrence.
func (o Occ) Index() Index { return Index(o >> 1) }

// IsNegated reports whether the low polarity bit is set (the occurrence
// denotes "not t" for the underlying Boolean term t).
func (o Occ) IsNegated() bool { return o&1 != 0 }

// Not flips the polarity bit. Spec.md §3 restricts this to Boolean term
// occurrences; callers must check Table.IsBoolean before calling Not on an
// occurrence obtained from untrusted input -- Not itself is a pure bit
// operation and never consults the table (spec.md §4.1 Polarity encoding).
func (o Occ) Not() Occ { return o ^ 1 }

// SignedOcc returns the positive occurrence of idx if negated is false,
// else the negative occurrence -- "signed_term(i, bool)" in spec.md §4.1.
func SignedOcc(idx Index, negated bool) Occ { return MkOcc(idx, negated) }
