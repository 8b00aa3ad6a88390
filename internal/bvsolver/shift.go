package bvsolver

import "qfbv/internal/clause"

// barrelShift builds a log-width cascade of ITE stages that shifts a by
// the binary value of amount, one power-of-two stage per bit of
// amount. fill supplies the literal used to backfill vacated positions
// (false for logical shifts, the sign bit re-broadcast for arithmetic
// right shift). dir < 0 shifts toward lower indices (right shift),
// dir > 0 toward higher indices (left shift).
func (s *Solver) barrelShift(a Var, amount Var, dir int, fill func(cur []clause.Lit) clause.Lit) Var {
	width := len(s.bits[a])
	cur := append([]clause.Lit(nil), s.bits[a]...)

	for stage, amtBit := range s.bits[amount] {
		shiftBy := width // a stage worth >= width vacates every position
		if stage < 30 && 1<<uint(stage) < width {
			shiftBy = 1 << uint(stage)
		}
		shifted := make([]clause.Lit, width)
		f := fill(cur)
		for i := 0; i < width; i++ {
			src := i - dir*shiftBy
			if src < 0 || src >= width {
				shifted[i] = f
			} else {
				shifted[i] = cur[src]
			}
		}
		next := make([]clause.Lit, width)
		for i := range next {
			next[i] = s.iteGate(amtBit, shifted[i], cur[i])
		}
		cur = next
	}
	return s.register(cur)
}

// BVShl bit-blasts a logical left shift by a variable amount.
func (s *Solver) BVShl(a, amount Var) (Var, error) {
	zero := s.constLit(false)
	return s.barrelShift(a, amount, 1, func([]clause.Lit) clause.Lit { return zero }), nil
}

// BVLshr bit-blasts a logical right shift by a variable amount.
func (s *Solver) BVLshr(a, amount Var) (Var, error) {
	zero := s.constLit(false)
	return s.barrelShift(a, amount, -1, func([]clause.Lit) clause.Lit { return zero }), nil
}

// BVAshr bit-blasts an arithmetic right shift by a variable amount,
// backfilling with the sign bit instead of zero.
func (s *Solver) BVAshr(a, amount Var) (Var, error) {
	signBit := s.bits[a][len(s.bits[a])-1]
	return s.barrelShift(a, amount, -1, func([]clause.Lit) clause.Lit { return signBit }), nil
}
