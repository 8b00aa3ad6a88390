package clause

import "testing"

func TestAddAndReadBack(t *testing.T) {
	p := NewPool(0)
	lits := []Lit{MkLit(0, false), MkLit(1, true), MkLit(2, false)}
	off, err := p.Add(lits, 0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if off%4 != 0 {
		t.Fatalf("expected a 4-aligned offset, got %d", off)
	}
	if p.Len(off) != 3 {
		t.Fatalf("expected length 3, got %d", p.Len(off))
	}
	got := p.Lits(off)
	for i, l := range lits {
		if got[i] != l {
			t.Fatalf("literal %d: expected %v, got %v", i, l, got[i])
		}
	}
}

func TestAddRejectsEmptyClause(t *testing.T) {
	p := NewPool(0)
	if _, err := p.Add(nil, 0); err == nil {
		t.Fatalf("expected Add to reject an empty clause")
	}
}

func TestShortenWritesPaddingBlock(t *testing.T) {
	p := NewPool(0)
	off, _ := p.Add([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(3, false)}, 0)
	p.Shorten(off, 2)
	if p.Len(off) != 2 {
		t.Fatalf("expected shortened length 2, got %d", p.Len(off))
	}
	if !p.IsPadding(off+4) || p.PaddingWords(off+4) != 4 {
		t.Fatalf("expected a 4-word padding block after the shortened clause")
	}
}

func TestDeleteWritesPaddingBlock(t *testing.T) {
	p := NewPool(0)
	off, _ := p.Add([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, 0)
	p.Delete(off)
	if !p.IsPadding(off) {
		t.Fatalf("expected a padding block after Delete")
	}
}

func TestLearnedRegion(t *testing.T) {
	p := NewPool(0)
	p.Add([]Lit{MkLit(0, false), MkLit(1, false)}, 0)
	p.BeginLearned()
	learnedOff, _ := p.Add([]Lit{MkLit(2, false), MkLit(3, false)}, 0)
	if !p.IsLearned(learnedOff) {
		t.Fatalf("expected clause added after BeginLearned to be in the learned region")
	}
}

func TestSwapLits(t *testing.T) {
	p := NewPool(0)
	a, b := MkLit(0, false), MkLit(1, false)
	off, _ := p.Add([]Lit{a, b, MkLit(2, false)}, 0)
	p.SwapLits(off, 0, 2)
	if p.LitAt(off, 0) == a {
		t.Fatalf("expected SwapLits to move a different literal into position 0")
	}
}

func TestWatchesClauseRoundTrip(t *testing.T) {
	p := NewPool(0)
	l0, l1, l2 := MkLit(0, false), MkLit(1, false), MkLit(2, true)
	off, _ := p.Add([]Lit{l0, l1, l2}, 0)
	w := NewWatches()
	w.AddClause(off, l0, l1)

	recs := w.List(l0)
	if len(recs) != 1 || recs[0].IsBinary() || recs[0].Offset() != off {
		t.Fatalf("expected a single clause watch record under l0, got %v", recs)
	}
}

func TestWatchesBinaryRoundTrip(t *testing.T) {
	w := NewWatches()
	l0, l1 := MkLit(0, false), MkLit(1, true)
	w.AddBinary(l0, l1)

	recs := w.List(l0)
	if len(recs) != 1 || !recs[0].IsBinary() || recs[0].OtherLit() != l1 {
		t.Fatalf("expected an inlined binary watch record for l1 under l0, got %v", recs)
	}
}

func TestWatchesRemove(t *testing.T) {
	w := NewWatches()
	l0, l1 := MkLit(0, false), MkLit(1, false)
	rec := BinaryWatch(l1)
	w.Add(l0, rec)
	w.Remove(l0, rec)
	if len(w.List(l0)) != 0 {
		t.Fatalf("expected the watch vector to be empty after Remove")
	}
}
