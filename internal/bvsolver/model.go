package bvsolver

import "qfbv/internal/sat"

// Model is a frozen snapshot of every theory variable's bit values,
// read once after the SAT core reports SAT (spec.md `build_model`).
// Reading values directly off the live solver after search continues
// (e.g. into a subsequent push/pop frame) would be unsound, since
// backtracking clears assignments; Model decouples the two lifetimes.
type Model struct {
	values [][]bool // values[v][i] = truth value of bit i of variable v
}

// BuildModel captures the current SAT assignment for every theory
// variable allocated so far.
func (s *Solver) BuildModel() *Model {
	m := &Model{values: make([][]bool, len(s.bits))}
	for v, bits := range s.bits {
		vals := make([]bool, len(bits))
		for i, l := range bits {
			vals[i] = s.core.Value(l) == sat.True
		}
		m.values[v] = vals
	}
	return m
}

// FreeModel releases the snapshot (a no-op beyond letting the
// reference be garbage collected; kept as an explicit vtable entry per
// spec.md so callers have a symmetric build/free pair to mirror the
// original implementation's manual memory management).
func (m *Model) FreeModel() {}

// ValueInModel returns the width-bit unsigned value of v recorded in
// m, low bit first (spec.md `value_in_model`).
func (m *Model) ValueInModel(v Var) uint64 {
	var val uint64
	for i, b := range m.values[v] {
		if b {
			val |= 1 << uint(i)
		}
	}
	return val
}

// BitValue returns the truth value of bit i of v in m.
func (m *Model) BitValue(v Var, i int) bool { return m.values[v][i] }
