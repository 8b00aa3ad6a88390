package bvsolver

import "qfbv/internal/clause"

// Eq returns a literal true iff a and b are bitwise equal: AND of a
// per-bit XNOR (spec.md's `eq` atom constructor).
func (s *Solver) Eq(a, b Var) (clause.Lit, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("bveq")
	}
	acc := s.constLit(true)
	for i := range s.bits[a] {
		bitEq := notLit(s.xorGate(s.bits[a][i], s.bits[b][i]))
		acc = s.andGate(acc, bitEq)
	}
	return acc, nil
}

// Ge returns a literal true iff a >= b as unsigned integers (spec.md's
// `ge` atom constructor), via the standard high-to-low comparator
// chain: gt_so_far OR (eq_so_far AND this_bit_ge).
func (s *Solver) Ge(a, b Var) (clause.Lit, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("bvge")
	}
	width := len(s.bits[a])
	gt := s.constLit(false)
	eq := s.constLit(true)
	for i := width - 1; i >= 0; i-- {
		ai, bi := s.bits[a][i], s.bits[b][i]
		bitGt := s.andGate(ai, notLit(bi))
		bitEq := notLit(s.xorGate(ai, bi))
		gt = s.orGate(gt, s.andGate(eq, bitGt))
		eq = s.andGate(eq, bitEq)
	}
	return s.orGate(gt, eq), nil
}

// Sge returns a literal true iff a >= b as two's-complement signed
// integers: unsigned-compare the bodies with the sign bits flipped,
// which maps the signed order onto the unsigned one.
func (s *Solver) Sge(a, b Var) (clause.Lit, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("bvsge")
	}
	width := len(s.bits[a])
	av := append([]clause.Lit(nil), s.bits[a]...)
	bv := append([]clause.Lit(nil), s.bits[b]...)
	av[width-1] = notLit(av[width-1])
	bv[width-1] = notLit(bv[width-1])
	flippedA := s.register(av)
	flippedB := s.register(bv)
	return s.Ge(flippedA, flippedB)
}
