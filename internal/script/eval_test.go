package script

import (
	"testing"

	"qfbv/internal/config"
	"qfbv/internal/context"
	"qfbv/internal/sat"
)

func mustEvaluator(t *testing.T) (*Evaluator, *context.Context) {
	t.Helper()
	ctx, err := context.New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		t.Fatalf("context.New: %v", err)
	}
	return NewEvaluator(ctx), ctx
}

func runScript(t *testing.T, ev *Evaluator, src string) []Result {
	t.Helper()
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	results := make([]Result, 0, len(prog.Lines))
	for _, line := range prog.Lines {
		r, err := ev.Run(line)
		if err != nil {
			t.Fatalf("run %q: %v", src, err)
		}
		results = append(results, r)
	}
	return results
}

func TestDeclareAndAssertEqualityIsSAT(t *testing.T) {
	ev, ctx := mustEvaluator(t)
	runScript(t, ev, "declare_bv x 8\nassert (= x x)\ncheck_sat\n")

	if ev.Stats.Declared != 1 || ev.Stats.Asserted != 1 || ev.Stats.Checks != 1 {
		t.Fatalf("unexpected stats: %+v", ev.Stats)
	}
	if got := ctx.CheckSat(); got != sat.StatusSAT {
		t.Fatalf("expected sat, got %v", got)
	}
}

func TestAssertDistinctSelfIsUNSAT(t *testing.T) {
	ev, ctx := mustEvaluator(t)
	runScript(t, ev, "declare_bv x 4\nassert (distinct x x)\ncheck_sat\n")

	if got := ctx.CheckSat(); got != sat.StatusUNSAT {
		t.Fatalf("expected unsat, got %v", got)
	}
}

func TestUndeclaredIdentifierErrors(t *testing.T) {
	ev, _ := mustEvaluator(t)
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", "assert (= y y)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(prog.Lines[0]); err == nil {
		t.Fatalf("expected an error for an undeclared identifier")
	}
}

func TestDuplicateDeclarationErrors(t *testing.T) {
	ev, _ := mustEvaluator(t)
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", "declare_bv x 4\ndeclare_bv x 8\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(prog.Lines[0]); err != nil {
		t.Fatalf("first declare: %v", err)
	}
	if _, err := ev.Run(prog.Lines[1]); err == nil {
		t.Fatalf("expected an error re-declaring x")
	}
}

func TestBVAddConstantFolding(t *testing.T) {
	ev, ctx := mustEvaluator(t)
	results := runScript(t, ev, ""+
		"declare_bv x 8\n"+
		"assert (= (bvadd x (const 8 1)) (bvadd (const 8 1) x))\n"+
		"check_sat\n")

	if len(results) != 3 || !results[2].CheckSat {
		t.Fatalf("expected the third line to report check_sat, got %+v", results)
	}
	if got := ctx.CheckSat(); got != sat.StatusSAT {
		t.Fatalf("expected sat, got %v", got)
	}
}

func TestBVMulRejectsVariableTimesVariable(t *testing.T) {
	ev, _ := mustEvaluator(t)
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", "declare_bv x 8\ndeclare_bv y 8\nassert (= (bvmul x y) x)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(prog.Lines[0]); err != nil {
		t.Fatalf("declare x: %v", err)
	}
	if _, err := ev.Run(prog.Lines[1]); err != nil {
		t.Fatalf("declare y: %v", err)
	}
	if _, err := ev.Run(prog.Lines[2]); err == nil {
		t.Fatalf("expected bvmul x y to be rejected")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	ev, ctx := mustEvaluator(t)
	runScript(t, ev, "declare_bv x 4\npush\nassert (distinct x x)\npop\ncheck_sat\n")

	if got := ctx.CheckSat(); got != sat.StatusSAT {
		t.Fatalf("expected sat after popping the contradiction, got %v", got)
	}
}

func TestExitStopsBeforeLaterLines(t *testing.T) {
	ev, _ := mustEvaluator(t)
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", "exit\ndeclare_bv x 4\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, err := ev.Run(prog.Lines[0])
	if err != nil {
		t.Fatalf("run exit: %v", err)
	}
	if !r.Exit {
		t.Fatalf("expected Result.Exit to be set")
	}
}

func TestBareIntegerLiteralRejected(t *testing.T) {
	ev, _ := mustEvaluator(t)
	parser, err := BuildParser()
	if err != nil {
		t.Fatalf("BuildParser: %v", err)
	}
	prog, err := parser.ParseString("<test>", "declare_bv x 4\nassert (= x 3)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(prog.Lines[0]); err != nil {
		t.Fatalf("declare x: %v", err)
	}
	if _, err := ev.Run(prog.Lines[1]); err == nil {
		t.Fatalf("expected a bare integer literal to be rejected")
	}
}
