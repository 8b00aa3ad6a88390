// Package model implements model reconstruction (spec.md §2's data flow
// step after a satisfiable check-sat, and §8 property 8: "a model built
// from a SAT assignment satisfies every asserted term when re-evaluated
// against it").
//
// Grounded on original_source/context.c's context_build_model, which
// walks the internalization table once and asks each attached theory
// solver to snapshot its own variables; generalized here to the single
// bvsolver.Solver this core attaches.
package model

import (
	"qfbv/internal/bvsolver"
	"qfbv/internal/clause"
	qerrors "qfbv/internal/errors"
	"qfbv/internal/intern"
	"qfbv/internal/sat"
	"qfbv/internal/term"
)

// Model is a satisfying assignment, readable back through term
// occurrences rather than raw SAT literals or theory variables.
type Model struct {
	terms *term.Table
	in    *intern.Table
	core  *sat.Solver
	bv    *bvsolver.Model
}

// Build reconstructs a model from a context's term table, internalization
// map, SAT core (which must have just returned sat.StatusSAT), and
// attached bit-vector solver (nil if the context runs with
// config.ArchNoSolvers, in which case ValueOfBV always errors).
func Build(terms *term.Table, in *intern.Table, core *sat.Solver, bv *bvsolver.Solver) *Model {
	var bvModel *bvsolver.Model
	if bv != nil {
		bvModel = bv.BuildModel()
	}
	return &Model{terms: terms, in: in, core: core, bv: bvModel}
}

// Free releases resources held by the model. The bit-vector model is a
// plain in-memory snapshot (bvsolver.Model.FreeModel is a documented
// no-op), so this only exists to mirror the original's
// context_free_model lifecycle call for callers that expect one.
func (m *Model) Free() {
	if m.bv != nil {
		m.bv.FreeModel()
	}
}

// ValueOfBool reports the truth value of a Boolean term occurrence: the
// value assigned to its underlying index, negated when occ is a negated
// occurrence.
func (m *Model) ValueOfBool(occ term.Occ) (bool, error) {
	if !m.terms.IsBoolean(occ) {
		return false, qerrors.New(qerrors.TypeError, "value_in_model: expected a Boolean term")
	}
	lit, ok := m.in.LiteralOf(occ.Index())
	if !ok {
		return false, qerrors.New(qerrors.FreeVariableInFormula, "value_in_model: term was never internalized")
	}
	v := m.core.Value(clause.Lit(lit))
	val := v == sat.True
	if occ.IsNegated() {
		val = !val
	}
	return val, nil
}

// ValueOfBV returns the bit-vector value assigned to occ, as a
// little-endian slice of bools (index 0 is the least-significant bit),
// matching bvsolver.Model.BitValue's indexing.
func (m *Model) ValueOfBV(occ term.Occ) ([]bool, error) {
	if m.bv == nil {
		return nil, qerrors.New(qerrors.BVNotSupported, "value_in_model: no bit-vector solver attached")
	}
	tv, ok := m.in.TheoryVarOf(occ.Index())
	if !ok {
		return nil, qerrors.New(qerrors.FreeVariableInFormula, "value_in_model: term was never internalized")
	}
	width := m.terms.Width(occ)
	v := bvsolver.Var(tv)
	bits := make([]bool, width)
	for i := range bits {
		bits[i] = m.bv.BitValue(v, i)
	}
	return bits, nil
}

// ValueOfBV64 packs ValueOfBV's result into a uint64 for widths <= 64.
func (m *Model) ValueOfBV64(occ term.Occ) (uint64, error) {
	bits, err := m.ValueOfBV(occ)
	if err != nil {
		return 0, err
	}
	if len(bits) > 64 {
		return 0, qerrors.New(qerrors.ErrBadBitwidth, "value_in_model: width exceeds 64 bits, use ValueOfBV")
	}
	var out uint64
	for i, b := range bits {
		if b {
			out |= 1 << uint(i)
		}
	}
	return out, nil
}
