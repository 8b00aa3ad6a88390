// Package pprod implements the power-product table: an ordered multiset
// "∏ vᵢ^dᵢ" of term occurrences with positive exponents, hash-consed
// separately from the term table (spec.md §3, "Power product").
//
// The table is generic over the underlying variable identifier (a plain
// uint32) rather than importing the term package directly, so that the
// term package can embed pprod.ID in a term descriptor without creating an
// import cycle: a term occurrence and a pprod.Var share the same uint32
// encoding.
package pprod

import (
	"encoding/binary"
	"sort"

	qerrors "qfbv/internal/errors"
)

// Var is a term occurrence reinterpreted as an opaque variable handle.
type Var uint32

// Factor is one "v^d" term of a power product.
type Factor struct {
	Var Var
	Exp uint32
}

// ID indexes a hash-consed power product. 0 is never a valid product (the
// empty product has no term representation, per spec.md §4.1).
type ID uint32

// MaxTotalDegree is the degree ceiling from spec.md §3.
const MaxTotalDegree = 1<<32 - 1

type entry struct {
	factors []Factor
	degree  uint64
	mark    bool
}

// Table is the hash-consed power-product store.
type Table struct {
	entries []entry // entries[0] unused
	hcons   map[string]ID
}

// NewTable returns an empty power-product table.
func NewTable() *Table {
	return &Table{
		entries: make([]entry, 1),
		hcons:   make(map[string]ID),
	}
}

// Product canonicalizes factors (sorts by Var, merges duplicate variables
// by summing exponents), rejects the empty product and single-variable
// products tagged with exponent 1 (the caller supplies the variable
// directly in that case, per spec.md §4.1), and hash-conses the result.
func (t *Table) Product(factors []Factor) (ID, error) {
	merged := mergeFactors(factors)
	if len(merged) == 0 {
		return 0, qerrors.New(qerrors.ErrArityMismatch, "power product requires at least one factor")
	}
	if len(merged) == 1 && merged[0].Exp == 1 {
		return 0, qerrors.New(qerrors.ErrArityMismatch, "single-variable product with exponent 1 is not representable; use the variable occurrence directly")
	}

	var degree uint64
	for _, f := range merged {
		degree += uint64(f.Exp)
	}
	if degree > MaxTotalDegree {
		return 0, qerrors.Newf(qerrors.ErrArityMismatch, "power product total degree %d exceeds limit", degree)
	}

	key := encodeKey(merged)
	if id, ok := t.hcons[key]; ok {
		return id, nil
	}

	id := ID(len(t.entries))
	t.entries = append(t.entries, entry{factors: merged, degree: degree})
	t.hcons[key] = id
	return id, nil
}

// Factors returns the canonical factor list for id.
func (t *Table) Factors(id ID) []Factor {
	return t.entries[id].factors
}

// Degree returns the total degree of id.
func (t *Table) Degree(id ID) uint64 {
	return t.entries[id].degree
}

// Mark marks id (and transitively nothing further -- power products bottom
// out at term occurrences, which the term table's own GC handles) as
// reachable for the next Sweep.
func (t *Table) Mark(id ID) {
	if id == 0 {
		return
	}
	t.entries[id].mark = true
}

// Sweep compacts the table, keeping only marked entries, and clears marks.
// It returns the mapping from old ID to new ID (0 for removed entries),
// which callers (the term table) use to renumber any stored pprod.ID
// descriptors after a GC pass.
func (t *Table) Sweep() map[ID]ID {
	remap := make(map[ID]ID, len(t.entries))
	newEntries := make([]entry, 1, len(t.entries))
	for i := 1; i < len(t.entries); i++ {
		e := t.entries[i]
		if !e.mark {
			continue
		}
		e.mark = false
		newEntries = append(newEntries, e)
		remap[ID(i)] = ID(len(newEntries) - 1)
	}
	t.entries = newEntries
	t.hcons = make(map[string]ID, len(newEntries))
	for id := ID(1); int(id) < len(newEntries); id++ {
		t.hcons[encodeKey(newEntries[id].factors)] = id
	}
	return remap
}

func mergeFactors(factors []Factor) []Factor {
	sums := make(map[Var]uint64, len(factors))
	order := make([]Var, 0, len(factors))
	for _, f := range factors {
		if f.Exp == 0 {
			continue
		}
		if _, seen := sums[f.Var]; !seen {
			order = append(order, f.Var)
		}
		sums[f.Var] += uint64(f.Exp)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	merged := make([]Factor, 0, len(order))
	for _, v := range order {
		merged = append(merged, Factor{Var: v, Exp: uint32(sums[v])})
	}
	return merged
}

func encodeKey(factors []Factor) string {
	buf := make([]byte, 8*len(factors))
	for i, f := range factors {
		binary.LittleEndian.PutUint32(buf[i*8:], uint32(f.Var))
		binary.LittleEndian.PutUint32(buf[i*8+4:], f.Exp)
	}
	return string(buf)
}
