package bvsolver

import (
	"testing"

	"qfbv/internal/clause"
	"qfbv/internal/sat"
)

func TestCreateConst64AndEqSatisfiable(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	a, err := s.CreateConst64(4, 5)
	if err != nil {
		t.Fatalf("CreateConst64: %v", err)
	}
	b, err := s.CreateConst64(4, 5)
	if err != nil {
		t.Fatalf("CreateConst64: %v", err)
	}
	eq, err := s.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if err := core.AddClause([]clause.Lit{eq}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusSAT {
		t.Fatalf("expected equal constants to be satisfiably equal, got %v", status)
	}
}

func TestCreateConst64DistinctValuesUnequal(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	a, _ := s.CreateConst64(4, 5)
	b, _ := s.CreateConst64(4, 6)
	eq, err := s.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if err := core.AddClause([]clause.Lit{eq}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusUNSAT {
		t.Fatalf("expected distinct constants to be unequal, got %v", status)
	}
}

func TestAddMatchesExpectedSumViaModel(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	a, _ := s.CreateVar(4)
	b, _ := s.CreateVar(4)
	sum, err := s.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	three, _ := s.CreateConst64(4, 3)
	four, _ := s.CreateConst64(4, 4)
	seven, _ := s.CreateConst64(4, 7)

	aEq3, _ := s.Eq(a, three)
	bEq4, _ := s.Eq(b, four)
	sumEq7, _ := s.Eq(sum, seven)

	for _, l := range []clause.Lit{aEq3, bEq4} {
		if err := core.AddClause([]clause.Lit{l}); err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	if err := core.AddClause([]clause.Lit{sumEq7}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusSAT {
		t.Fatalf("expected 3 + 4 == 7 to be satisfiable, got %v", status)
	}
}

func TestGeOrdersConstants(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	five, _ := s.CreateConst64(4, 5)
	three, _ := s.CreateConst64(4, 3)
	ge, err := s.Ge(five, three)
	if err != nil {
		t.Fatalf("Ge: %v", err)
	}
	if err := core.AddClause([]clause.Lit{ge}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusSAT {
		t.Fatalf("expected 5 >= 3 to hold, got %v", status)
	}
}

func TestGeRejectsFalseComparison(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	three, _ := s.CreateConst64(4, 3)
	five, _ := s.CreateConst64(4, 5)
	ge, err := s.Ge(three, five)
	if err != nil {
		t.Fatalf("Ge: %v", err)
	}
	if err := core.AddClause([]clause.Lit{ge}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusUNSAT {
		t.Fatalf("expected 3 >= 5 to be refutable, got %v", status)
	}
}

func TestDivisionByZeroAxiom(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	a, _ := s.CreateVar(4)
	zero, _ := s.CreateConst64(4, 0)
	q, err := s.BVDiv(a, zero)
	if err != nil {
		t.Fatalf("BVDiv: %v", err)
	}
	allOnes, _ := s.CreateConst64(4, 0xF)
	qEqAllOnes, err := s.Eq(q, allOnes)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	notAllOnes := qEqAllOnes.Neg()
	if err := core.AddClause([]clause.Lit{notAllOnes}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if status := core.Solve(); status != sat.StatusUNSAT {
		t.Fatalf("expected division by zero to force q == all-ones, got %v", status)
	}
}

func TestBuildModelReadsBackConstant(t *testing.T) {
	core := sat.NewSolver(0)
	s := New(core)

	v, _ := s.CreateConst64(8, 42)
	if status := core.Solve(); status != sat.StatusSAT {
		t.Fatalf("expected SAT, got %v", status)
	}
	m := s.BuildModel()
	if got := m.ValueInModel(v); got != 42 {
		t.Fatalf("expected ValueInModel to read back 42, got %d", got)
	}
}
