package term

import "testing"

func TestConstantTermHashConsing(t *testing.T) {
	tbl := NewTable()
	ty, err := tbl.BitVecType(8)
	if err != nil {
		t.Fatalf("BitVecType: %v", err)
	}
	a := tbl.ConstantTerm(ty, 5)
	b := tbl.ConstantTerm(ty, 5)
	if a != b {
		t.Fatalf("expected hash-consed occurrences to be equal, got %v != %v", a, b)
	}
	c := tbl.ConstantTerm(ty, 6)
	if a == c {
		t.Fatalf("distinct constants hash-consed to the same occurrence")
	}
}

func TestNewUninterpretedNeverHashConsed(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	if a == b {
		t.Fatalf("UNINTERPRETED terms must never be hash-consed")
	}
}

func TestNotFlipsPolarity(t *testing.T) {
	tbl := NewTable()
	a := tbl.NewUninterpreted(BoolTypeID)
	na, err := tbl.Not(a)
	if err != nil {
		t.Fatalf("Not: %v", err)
	}
	if na.Index() != a.Index() {
		t.Fatalf("Not must preserve the underlying index")
	}
	if na.IsNegated() == a.IsNegated() {
		t.Fatalf("Not must flip the polarity bit")
	}
	nna, _ := tbl.Not(na)
	if nna != a {
		t.Fatalf("double negation must return the original occurrence")
	}
}

func TestNotRejectsNonBoolean(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	if _, err := tbl.Not(a); err == nil {
		t.Fatalf("expected Not on a non-Boolean term to fail")
	}
}

func TestEqHashConsingIsOrderIndependent(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	ab, err := tbl.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	ba, err := tbl.Eq(b, a)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if ab != ba {
		t.Fatalf("Eq must hash-cons regardless of argument order")
	}
}

func TestEqRejectsTypeMismatch(t *testing.T) {
	tbl := NewTable()
	ty8, _ := tbl.BitVecType(8)
	ty16, _ := tbl.BitVecType(16)
	a := tbl.NewUninterpreted(ty8)
	b := tbl.NewUninterpreted(ty16)
	if _, err := tbl.Eq(a, b); err == nil {
		t.Fatalf("expected Eq to reject mismatched types")
	}
}

func TestIteRequiresBooleanCondition(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	if _, err := tbl.Ite(ty, a, a, b); err == nil {
		t.Fatalf("expected Ite to reject a non-Boolean condition")
	}
}

func TestDistinctRequiresArityAtLeastTwo(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	if _, err := tbl.Distinct([]Occ{a}); err == nil {
		t.Fatalf("expected Distinct to reject arity < 2")
	}
}

func TestBitRejectsOutOfRangeIndex(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	if _, err := tbl.Bit(8, a); err == nil {
		t.Fatalf("expected Bit to reject an out-of-range index")
	}
	if _, err := tbl.Bit(7, a); err != nil {
		t.Fatalf("Bit: unexpected error for in-range index: %v", err)
	}
}

func TestBVArrayWidthMatchesArgumentCount(t *testing.T) {
	tbl := NewTable()
	bits := []Occ{tbl.True(), tbl.False(), tbl.True()}
	occ, err := tbl.BVArray(bits)
	if err != nil {
		t.Fatalf("BVArray: %v", err)
	}
	if tbl.Width(occ) != 3 {
		t.Fatalf("expected width 3, got %d", tbl.Width(occ))
	}
}

func TestBV64ConstantNormalizesToWidth(t *testing.T) {
	tbl := NewTable()
	occ, err := tbl.BV64Constant(4, 0xFF)
	if err != nil {
		t.Fatalf("BV64Constant: %v", err)
	}
	again, err := tbl.BV64Constant(4, 0x0F)
	if err != nil {
		t.Fatalf("BV64Constant: %v", err)
	}
	if occ != again {
		t.Fatalf("expected normalization to 4 bits to hash-cons 0xFF and 0x0F together")
	}
}

func TestBVBinaryRejectsWidthMismatch(t *testing.T) {
	tbl := NewTable()
	ty8, _ := tbl.BitVecType(8)
	ty16, _ := tbl.BitVecType(16)
	a := tbl.NewUninterpreted(ty8)
	b := tbl.NewUninterpreted(ty16)
	if _, err := tbl.BVShl(a, b); err == nil {
		t.Fatalf("expected BVShl to reject a width mismatch")
	}
}
