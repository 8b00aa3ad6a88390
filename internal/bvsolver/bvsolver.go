// Package bvsolver implements the bit-vector theory solver vtable of
// spec.md §5.2/§6: a bit-blaster that represents every theory variable
// as a vector of per-bit Boolean literals in the attached SAT core,
// and emits the Tseytin-encoded gate clauses that define arithmetic,
// comparison, shift, and ITE operators over those bits.
//
// Grounded on original_source/bv_solver.c's "bv_vartable" + "bvpoly"
// split (theory variables carry a bit array; a handful of axiom
// clauses tie derived results back to their defining equations), with
// a uniform gate-emission style: every gate constructor allocates a
// fresh result variable and asserts the clauses that pin it to its
// definition; gates are neither simplified nor shared.
package bvsolver

import (
	"qfbv/internal/clause"
	qerrors "qfbv/internal/errors"
	"qfbv/internal/sat"
)

// Var is an opaque theory-variable handle: an index into Solver.bits.
type Var int32

// Solver is the bit-vector theory solver. It owns no terms; it only
// knows how to allocate bit-vectors of SAT literals and wire gates
// between them. The context package is responsible for mapping term
// indices to Var handles via the intern package.
type Solver struct {
	core    *sat.Solver
	bits    [][]clause.Lit // bits[v] = low-bit-first literal vector
	trueVar int32          // reserved SAT variable fixed true; -1 until first needed
}

// New returns a bit-vector theory solver bit-blasting into core.
func New(core *sat.Solver) *Solver {
	return &Solver{core: core, trueVar: -1}
}

// Width returns the bit width of v.
func (s *Solver) Width(v Var) int { return len(s.bits[v]) }

// BitsOf returns v's literal vector, low bit first. Callers must not
// mutate the returned slice.
func (s *Solver) BitsOf(v Var) []clause.Lit { return s.bits[v] }

// CreateVar allocates a fresh theory variable of the given width, one
// fresh SAT variable per bit (spec.md's `create_var`).
func (s *Solver) CreateVar(width uint32) (Var, error) {
	if width == 0 {
		return 0, qerrors.New(qerrors.ErrBadBitwidth, "create_var: width must be >= 1")
	}
	bits := make([]clause.Lit, width)
	for i := range bits {
		v := s.core.AddVar()
		bits[i] = clause.MkLit(v, false)
	}
	return s.register(bits), nil
}

// CreateConst64 allocates a theory variable bit-blasted directly to the
// true/false literal for each fixed bit of value. value is
// zero-extended: for widths above 64, bits 64 and up are false.
func (s *Solver) CreateConst64(width uint32, value uint64) (Var, error) {
	if width == 0 {
		return 0, qerrors.New(qerrors.ErrBadBitwidth, "create_const64: width must be >= 1")
	}
	bits := make([]clause.Lit, width)
	for i := range bits {
		bits[i] = s.constLit(i < 64 && (value>>uint(i))&1 != 0)
	}
	return s.register(bits), nil
}

// CreateConst is the arbitrary-width analogue of CreateConst64, taking
// little-endian 32-bit words.
func (s *Solver) CreateConst(width uint32, words []uint32) (Var, error) {
	if width == 0 {
		return 0, qerrors.New(qerrors.ErrBadBitwidth, "create_const: width must be >= 1")
	}
	bits := make([]clause.Lit, width)
	for i := range bits {
		word := words[i/32]
		bits[i] = s.constLit((word>>uint(i%32))&1 != 0)
	}
	return s.register(bits), nil
}

// CreateBVArray composes n Boolean literals (already obtained from the
// term/context layer) into a theory variable of width n.
func (s *Solver) CreateBVArray(bits []clause.Lit) (Var, error) {
	if len(bits) == 0 {
		return 0, qerrors.New(qerrors.ErrArityMismatch, "create_bvarray: width must be >= 1")
	}
	cp := append([]clause.Lit(nil), bits...)
	return s.register(cp), nil
}

func (s *Solver) register(bits []clause.Lit) Var {
	v := Var(len(s.bits))
	s.bits = append(s.bits, bits)
	return v
}

// constLit returns the literal for a constant bit, backed by this
// solver's reserved SAT variable fixed true at level 0. The solver
// allocates it lazily, the first time a constant bit is needed.
func (s *Solver) constLit(v bool) clause.Lit {
	if s.trueVar < 0 {
		x := s.core.AddVar()
		s.trueVar = x
		s.core.AddClause([]clause.Lit{clause.MkLit(x, false)}) //nolint:errcheck
	}
	return clause.MkLit(s.trueVar, !v)
}

// SetBit asserts that bit i of v equals the constant b (spec.md
// `set_bit`), used when the context pipeline learns a bit's value
// through propagation outside the normal CNF path (e.g. constant
// folding during internalization).
func (s *Solver) SetBit(v Var, i int, b bool) error {
	l := s.bits[v][i]
	if !b {
		l = l.Neg()
	}
	return s.core.AddClause([]clause.Lit{l})
}

// Bit returns the literal for bit i of v (spec.md `select_bit`).
func (s *Solver) Bit(v Var, i int) clause.Lit { return s.bits[v][i] }
