package config

import "testing"

func TestOptionsSetHasClear(t *testing.T) {
	o := Default
	if !o.Has(VarElim) || !o.Has(FlattenOr) {
		t.Fatalf("expected default options to include VarElim and FlattenOr")
	}
	if o.Has(Lax) {
		t.Fatalf("Lax must not be set by default")
	}
	o = o.Set(Lax)
	if !o.Has(Lax) {
		t.Fatalf("Set must add the option")
	}
	o = o.Clear(VarElim)
	if o.Has(VarElim) {
		t.Fatalf("Clear must remove the option")
	}
}

func TestArchitectureSupported(t *testing.T) {
	if !ArchBV.Supported() {
		t.Fatalf("ArchBV must be supported")
	}
	if !ArchNoSolvers.Supported() {
		t.Fatalf("ArchNoSolvers must be supported")
	}
	if ArchSimplex.Supported() {
		t.Fatalf("ArchSimplex must not be supported")
	}
}

func TestArchitectureString(t *testing.T) {
	if ArchBV.String() != "BV" {
		t.Fatalf("expected BV, got %s", ArchBV.String())
	}
}
