package sat

import (
	"testing"

	"qfbv/internal/clause"
)

func TestUnitPropagationSatisfiesClause(t *testing.T) {
	s := NewSolver(0)
	a := s.AddVar()
	b := s.AddVar()
	if err := s.AddClause([]clause.Lit{clause.MkLit(a, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if err := s.AddClause([]clause.Lit{clause.MkLit(a, true), clause.MkLit(b, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	status := s.Solve()
	if status != StatusSAT {
		t.Fatalf("expected SAT, got %v", status)
	}
	if s.value(clause.MkLit(a, false)) != True {
		t.Fatalf("expected a to be assigned true by the unit clause")
	}
}

func TestConflictingUnitClausesAreUnsat(t *testing.T) {
	s := NewSolver(0)
	a := s.AddVar()
	if err := s.AddClause([]clause.Lit{clause.MkLit(a, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	err := s.AddClause([]clause.Lit{clause.MkLit(a, true)})
	if err == nil {
		t.Fatalf("expected conflicting unit clauses to report an error")
	}
}

func TestSimpleUnsatInstance(t *testing.T) {
	s := NewSolver(0)
	a := s.AddVar()
	b := s.AddVar()
	// (a OR b) AND (a OR ~b) AND (~a OR b) AND (~a OR ~b) is UNSAT.
	clauses := [][]clause.Lit{
		{clause.MkLit(a, false), clause.MkLit(b, false)},
		{clause.MkLit(a, false), clause.MkLit(b, true)},
		{clause.MkLit(a, true), clause.MkLit(b, false)},
		{clause.MkLit(a, true), clause.MkLit(b, true)},
	}
	for _, c := range clauses {
		if err := s.AddClause(c); err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	if status := s.Solve(); status != StatusUNSAT {
		t.Fatalf("expected UNSAT, got %v", status)
	}
}

func TestSatisfiableThreeVarInstance(t *testing.T) {
	s := NewSolver(0)
	a := s.AddVar()
	b := s.AddVar()
	c := s.AddVar()
	clauses := [][]clause.Lit{
		{clause.MkLit(a, false), clause.MkLit(b, false), clause.MkLit(c, false)},
		{clause.MkLit(a, true), clause.MkLit(b, true)},
		{clause.MkLit(b, true), clause.MkLit(c, true)},
	}
	for _, cl := range clauses {
		if err := s.AddClause(cl); err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	if status := s.Solve(); status != StatusSAT {
		t.Fatalf("expected SAT, got %v", status)
	}
	for _, cl := range clauses {
		satisfied := false
		for _, l := range cl {
			if s.value(l) == True {
				satisfied = true
			}
		}
		if !satisfied {
			t.Fatalf("clause %v not satisfied by final assignment", cl)
		}
	}
}

func TestInterruptStopsSearch(t *testing.T) {
	s := NewSolver(0)
	a := s.AddVar()
	s.Interrupt()
	if err := s.AddClause([]clause.Lit{clause.MkLit(a, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	status := s.Solve()
	if status != StatusInterrupted {
		t.Fatalf("expected Interrupted, got %v", status)
	}
}

func TestLubySequence(t *testing.T) {
	want := []uint64{1, 1, 2, 1, 1, 2, 4, 1}
	for i, w := range want {
		if got := luby(uint64(i)); got != w {
			t.Fatalf("luby(%d): expected %d, got %d", i, w, got)
		}
	}
}
