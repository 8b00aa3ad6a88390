package intern

import (
	"testing"

	"qfbv/internal/term"
)

func TestUnionFindMergesClasses(t *testing.T) {
	tbl := New()
	tbl.Union(1, 2)
	tbl.Union(2, 3)
	if tbl.Find(1) != tbl.Find(3) {
		t.Fatalf("expected 1 and 3 to share a root after transitive union")
	}
}

func TestSetLiteralAndLiteralOf(t *testing.T) {
	tbl := New()
	tbl.Union(1, 2)
	tbl.SetLiteral(1, 100)
	lit, ok := tbl.LiteralOf(2)
	if !ok || lit != 100 {
		t.Fatalf("expected 2's class to resolve to literal 100, got %v, %v", lit, ok)
	}
	if tbl.State(2) != Literal {
		t.Fatalf("expected class state Literal")
	}
}

func TestUnionPrefersResolvedRoot(t *testing.T) {
	tbl := New()
	tbl.SetLiteral(1, 42)
	tbl.Union(1, 2)
	lit, ok := tbl.LiteralOf(2)
	if !ok || lit != 42 {
		t.Fatalf("expected the resolved root's literal to survive the union, got %v, %v", lit, ok)
	}
}

func TestSetTheoryVar(t *testing.T) {
	tbl := New()
	tbl.SetTheoryVar(5, 7)
	v, ok := tbl.TheoryVarOf(5)
	if !ok || v != 7 {
		t.Fatalf("expected theory var 7, got %v, %v", v, ok)
	}
	if _, ok := tbl.LiteralOf(5); ok {
		t.Fatalf("a theory-var-resolved class must not report a literal")
	}
}

func TestSubstitutePrefersTargetWhenBothUnresolved(t *testing.T) {
	tbl := New()
	tbl.Substitute(1, 2)
	if tbl.Find(1) != tbl.Find(2) {
		t.Fatalf("expected 1 and 2 to share a root after Substitute")
	}
	tbl.SetLiteral(2, 9)
	lit, ok := tbl.LiteralOf(1)
	if !ok || lit != 9 {
		t.Fatalf("expected 1 to resolve through the substitution target's literal, got %v, %v", lit, ok)
	}
}

func TestSubstitutePrefersAlreadyResolvedSide(t *testing.T) {
	tbl := New()
	tbl.SetLiteral(1, 42)
	tbl.Substitute(1, 2)
	lit, ok := tbl.LiteralOf(2)
	if !ok || lit != 42 {
		t.Fatalf("expected the already-resolved variable's literal to survive Substitute, got %v, %v", lit, ok)
	}
}

func TestSnapshotRestoreTo(t *testing.T) {
	tbl := New()
	tbl.SetLiteral(1, 5)
	snap := tbl.Snapshot()

	tbl.SetLiteral(2, 6)
	tbl.Union(1, 3)

	tbl.RestoreTo(snap)

	if _, ok := tbl.LiteralOf(2); ok {
		t.Fatalf("expected state recorded after the snapshot to be gone after RestoreTo")
	}
	if lit, ok := tbl.LiteralOf(1); !ok || lit != 5 {
		t.Fatalf("expected pre-snapshot state to survive RestoreTo, got %v, %v", lit, ok)
	}
}

func TestHasCycleDetectsCycle(t *testing.T) {
	tbl := New()
	edges := map[term.Index][]term.Index{
		1: {2},
		2: {3},
		3: {1},
	}
	lookup := func(idx term.Index) []term.Index { return edges[idx] }
	if !tbl.HasCycle(1, lookup) {
		t.Fatalf("expected a cycle to be detected")
	}
}

func TestHasCycleAcyclic(t *testing.T) {
	tbl := New()
	edges := map[term.Index][]term.Index{
		1: {2, 3},
		2: {4},
		3: {4},
		4: {},
	}
	lookup := func(idx term.Index) []term.Index { return edges[idx] }
	if tbl.HasCycle(1, lookup) {
		t.Fatalf("expected no cycle in a DAG")
	}
}
