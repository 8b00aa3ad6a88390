package context

import (
	"testing"

	"qfbv/internal/config"
	"qfbv/internal/sat"
	"qfbv/internal/term"
)

func TestAssertSimpleEqualityIsSAT(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModeMultiCheck, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	eq, err := tbl.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if err := ctx.Assert(eq); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	if status := ctx.CheckSat(); status != sat.StatusSAT {
		t.Fatalf("expected SAT, got %v", status)
	}
}

func TestAssertContradictionIsUNSAT(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModeMultiCheck, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	ty, _ := tbl.BitVecType(4)
	a := tbl.NewUninterpreted(ty)
	eq, err := tbl.Eq(a, a)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if err := ctx.Assert(eq); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	if err := ctx.Assert(eq.Not()); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	if status := ctx.CheckSat(); status != sat.StatusUNSAT {
		t.Fatalf("expected UNSAT from asserting both eq and its negation, got %v", status)
	}
}

func TestNewRejectsUnsupportedArchitecture(t *testing.T) {
	if _, err := New(config.ArchSimplex, config.ModeOneShot, config.Default); err == nil {
		t.Fatalf("expected New to reject an unsupported architecture")
	}
}

func TestPushPopRestoresAssertionLog(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	ty, _ := tbl.BitVecType(4)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	eq, _ := tbl.Eq(a, b)

	if err := ctx.Push(); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ctx.Assert(eq); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	if len(ctx.assertions) != 1 {
		t.Fatalf("expected 1 assertion after Assert, got %d", len(ctx.assertions))
	}
	if err := ctx.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if len(ctx.assertions) != 0 {
		t.Fatalf("expected 0 assertions after Pop, got %d", len(ctx.assertions))
	}
}

func TestPushPopFramesAreIndependent(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	p := tbl.NewUninterpreted(tbl.BoolType())

	if err := ctx.Push(); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ctx.Assert(p); err != nil {
		t.Fatalf("Assert p: %v", err)
	}
	if status := ctx.CheckSat(); status != sat.StatusSAT {
		t.Fatalf("expected SAT after asserting p, got %v", status)
	}
	if err := ctx.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if err := ctx.Assert(p.Not()); err != nil {
		t.Fatalf("Assert not p: %v", err)
	}
	if status := ctx.CheckSat(); status != sat.StatusSAT {
		t.Fatalf("expected SAT after popping p and asserting not p independently, got %v", status)
	}
}

func TestPopWithoutPushFails(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx.Pop(); err == nil {
		t.Fatalf("expected Pop without a matching Push to fail")
	}
}

func TestGCReclaimsUnreferencedTermsWithoutBreakingLiveOnes(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModeMultiCheck, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	ty, _ := tbl.BitVecType(8)
	a := tbl.NewUninterpreted(ty)
	b := tbl.NewUninterpreted(ty)
	eq, err := tbl.Eq(a, b)
	if err != nil {
		t.Fatalf("Eq: %v", err)
	}
	if err := ctx.Assert(eq); err != nil {
		t.Fatalf("Assert: %v", err)
	}

	// garbage is built but never asserted or named, so it should not
	// survive GC.
	garbage := tbl.NewUninterpreted(ty)
	_ = garbage

	ctx.GC()

	if status := ctx.CheckSat(); status != sat.StatusSAT {
		t.Fatalf("expected SAT after GC on a live assertion, got %v", status)
	}
}

func TestDistinctDetectsConflict(t *testing.T) {
	ctx, err := New(config.ArchBV, config.ModeMultiCheck, config.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl := ctx.Terms()
	c0, _ := tbl.BV64Constant(2, 0)
	c1, _ := tbl.BV64Constant(2, 0)
	distinct, err := tbl.Distinct([]term.Occ{c0, c1})
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if err := ctx.Assert(distinct); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	if status := ctx.CheckSat(); status != sat.StatusUNSAT {
		t.Fatalf("expected distinct equal constants to be UNSAT, got %v", status)
	}
}
