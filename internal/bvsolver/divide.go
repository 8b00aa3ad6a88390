package bvsolver

import "qfbv/internal/clause"

// divResult packages a fresh (quotient, remainder) pair together with
// the three axiom clauses asserted to pin them to a/b's defining
// relation (spec.md §6 "three axiom assertions"), rather than bit-
// blasting a full restoring-division circuit: the SAT core only ever
// needs the axioms that constrain a/b/q/r, and lets search discover a
// consistent assignment the way the original implementation's lazy
// bit-vector division axiomatization does.
func (s *Solver) divResult(a, b Var) (q, r Var, err error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, 0, widthMismatch("bvdiv")
	}
	width := uint32(len(s.bits[a]))

	q, err = s.CreateVar(width)
	if err != nil {
		return 0, 0, err
	}
	r, err = s.CreateVar(width)
	if err != nil {
		return 0, 0, err
	}

	bIsZero, err := s.Eq(b, mustConst(s, width, 0))
	if err != nil {
		return 0, 0, err
	}

	// Axiom 1: b == 0 -> q == all-ones (SMT-LIB bvudiv-by-zero
	// convention) and r == a.
	allOnes := mustConst(s, width, ^uint64(0))
	qIsAllOnes, _ := s.Eq(q, allOnes)
	rIsA, _ := s.Eq(r, a)
	s.assertImplication(bIsZero, qIsAllOnes)
	s.assertImplication(bIsZero, rIsA)

	// Axiom 2: b != 0 -> a == b*q + r.
	bNonzero := notLit(bIsZero)
	prod, err := s.multiply(b, q)
	if err != nil {
		return 0, 0, err
	}
	sum, err := s.Add(prod, r)
	if err != nil {
		return 0, 0, err
	}
	aEqSum, err := s.Eq(a, sum)
	if err != nil {
		return 0, 0, err
	}
	s.assertImplication(bNonzero, aEqSum)

	// Axiom 3: b != 0 -> r < b (unsigned remainder range).
	rGeB, err := s.Ge(r, b)
	if err != nil {
		return 0, 0, err
	}
	s.assertImplication(bNonzero, notLit(rGeB))

	return q, r, nil
}

func mustConst(s *Solver, width uint32, value uint64) Var {
	v, _ := s.CreateConst64(width, value)
	return v
}

// assertImplication asserts the clause (¬cond ∨ concl).
func (s *Solver) assertImplication(cond, concl clause.Lit) {
	s.core.AddClause([]clause.Lit{notLit(cond), concl}) //nolint:errcheck
}

// BVDiv bit-blasts unsigned division (spec.md `bvdiv`).
func (s *Solver) BVDiv(a, b Var) (Var, error) {
	q, _, err := s.divResult(a, b)
	return q, err
}

// BVRem bit-blasts unsigned remainder (spec.md `bvrem`).
func (s *Solver) BVRem(a, b Var) (Var, error) {
	_, r, err := s.divResult(a, b)
	return r, err
}

// BVSDiv bit-blasts signed (truncating) division by reducing to the
// unsigned case over absolute values and correcting the quotient's
// sign (spec.md `bvsdiv`).
func (s *Solver) BVSDiv(a, b Var) (Var, error) {
	width := uint32(len(s.bits[a]))
	aNeg, aAbs := s.absValue(a)
	bNeg, bAbs := s.absValue(b)
	uq, _, err := s.divResult(aAbs, bAbs)
	if err != nil {
		return 0, err
	}
	resultNeg := s.xorGate(aNeg, bNeg)
	negUq := s.Negate(uq)
	return s.selectVar(resultNeg, negUq, uq, width)
}

// BVSRem bit-blasts signed (truncating) remainder: the remainder's
// sign follows the dividend's.
func (s *Solver) BVSRem(a, b Var) (Var, error) {
	width := uint32(len(s.bits[a]))
	aNeg, aAbs := s.absValue(a)
	_, bAbs := s.absValue(b)
	_, ur, err := s.divResult(aAbs, bAbs)
	if err != nil {
		return 0, err
	}
	negUr := s.Negate(ur)
	return s.selectVar(aNeg, negUr, ur, width)
}

// BVSMod bit-blasts the floored signed remainder (result takes the
// divisor's sign), derived from BVSRem by adding b back when the
// truncating remainder's sign disagrees with b's.
func (s *Solver) BVSMod(a, b Var) (Var, error) {
	width := uint32(len(s.bits[a]))
	srem, err := s.BVSRem(a, b)
	if err != nil {
		return 0, err
	}
	remZero, err := s.Eq(srem, mustConst(s, width, 0))
	if err != nil {
		return 0, err
	}
	remNeg := s.bits[srem][width-1]
	bNeg := s.bits[b][width-1]
	signsDiffer := s.xorGate(remNeg, bNeg)
	needsAdjust := s.andGate(notLit(remZero), signsDiffer)
	adjusted, err := s.Add(srem, b)
	if err != nil {
		return 0, err
	}
	return s.selectVar(needsAdjust, adjusted, srem, width)
}

// absValue returns (isNegative, |v|) for a two's-complement operand.
func (s *Solver) absValue(v Var) (clause.Lit, Var) {
	width := uint32(len(s.bits[v]))
	neg := s.bits[v][width-1]
	negated := s.Negate(v)
	abs, _ := s.selectVar(neg, negated, v, width)
	return neg, abs
}

// selectVar bit-blasts a per-bit ITE selecting whenTrue or whenFalse
// according to cond, without needing both operands pre-registered as
// full BVITE input (used internally where one side is freshly
// computed).
func (s *Solver) selectVar(cond clause.Lit, whenTrue, whenFalse Var, width uint32) (Var, error) {
	out := make([]clause.Lit, width)
	for i := range out {
		out[i] = s.iteGate(cond, s.bits[whenTrue][i], s.bits[whenFalse][i])
	}
	return s.register(out), nil
}
