package term

import "testing"

func TestSweepReclaimsUnmarkedTerms(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	keep := tbl.NewUninterpreted(ty)
	garbage := tbl.NewUninterpreted(ty)

	tbl.Mark(keep)
	remap := tbl.Sweep()

	if _, ok := remap[garbage.Index()]; ok {
		t.Fatalf("unmarked term should not appear in the sweep remap")
	}
	newKeep, ok := remap[keep.Index()]
	if !ok {
		t.Fatalf("marked term missing from sweep remap")
	}
	if tbl.KindOf(MkOcc(newKeep, false)) != KindUninterpreted {
		t.Fatalf("remapped index does not point at the kept term")
	}
}

func TestSweepPreservesTrueAndReserved(t *testing.T) {
	tbl := NewTable()
	remap := tbl.Sweep()
	if remap[ReservedIndex] != ReservedIndex {
		t.Fatalf("reserved index must remain stable across sweep")
	}
	if remap[TrueIndex] != TrueIndex {
		t.Fatalf("true index must remain stable across sweep")
	}
	if tbl.True() != TrueOcc || tbl.False() != FalseOcc {
		t.Fatalf("true/false occurrences must survive a sweep with no live garbage")
	}
}

func TestSweepPreservesStructuralSharing(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	eq, err := tbl.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}

	tbl.Mark(eq)
	remap := tbl.Sweep()

	newA := MkOcc(remap[a.Index()], false)
	newB := MkOcc(remap[b.Index()], false)
	eq2, err := tbl.Eq(newA, newB)
	if err != nil {
		t.Fatalf("Eq after sweep: %v", err)
	}
	if eq2.Index() != remap[eq.Index()] {
		t.Fatalf("re-deriving the same equality after sweep should hash-cons to the remapped term")
	}
}

func TestSweepMarksDependenciesTransitively(t *testing.T) {
	tbl := NewTable()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	c := tbl.NewUninterpreted(ty)
	inner, err := tbl.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	outer, err := tbl.Ite(ty, inner, a, c)
	if err != nil {
		t.Fatalf("Ite: %v", err)
	}

	tbl.Mark(outer)
	remap := tbl.Sweep()

	for _, idx := range []Index{a.Index(), b.Index(), c.Index(), inner.Index(), outer.Index()} {
		if _, ok := remap[idx]; !ok {
			t.Fatalf("index %d reachable from the marked root was not kept", idx)
		}
	}
}

func TestBitVecTypeSweptWhenUnreferenced(t *testing.T) {
	tbl := NewTable()
	ty16, _ := tbl.BitVecType(16)
	_ = tbl.NewUninterpreted(ty16)
	// Nothing marked: the width-16 type and its sole term are both garbage.
	tbl.Sweep()

	ty16Again, err := tbl.BitVecType(16)
	if err != nil {
		t.Fatalf("BitVecType: %v", err)
	}
	if tbl.types.width(ty16Again) != 16 {
		t.Fatalf("expected width 16 to be re-creatable after being swept away")
	}
}
