package script

import (
	"fmt"
	"strconv"

	"qfbv/internal/context"
	"qfbv/internal/term"
	"qfbv/token"
)

// Evaluator walks a parsed Script and drives a context: the
// programmatic API the teacher's internal/semantic.Analyzer drives an
// AST through, generalized here from "bind names, check types, lower
// to IR" to "bind names, build terms, assert".
type Evaluator struct {
	ctx   *context.Context
	vars  map[string]term.Occ
	Stats Stats
}

// Stats tallies what an Evaluator has done, surfaced by cmd/qfbv-check's
// --stats flag.
type Stats struct {
	Declared int
	Asserted int
	Checks   int
}

// NewEvaluator returns an Evaluator bound to ctx, with its own name
// table independent of ctx's internal symtab (the script's variable
// names are a CLI-level convenience; internalization does not need
// them).
func NewEvaluator(ctx *context.Context) *Evaluator {
	return &Evaluator{ctx: ctx, vars: make(map[string]term.Occ)}
}

// Result tells the driver loop what happened, so it can decide whether
// to print a check-sat/get-model line and whether to stop.
type Result struct {
	CheckSat bool
	GetModel bool
	Exit     bool
}

// Run executes one parsed command line.
func (ev *Evaluator) Run(line *Line) (Result, error) {
	switch {
	case line.DeclareBV != nil:
		return Result{}, ev.declareBV(line.DeclareBV)
	case line.Assert != nil:
		return Result{}, ev.assert(line.Assert)
	case line.CheckSat != nil:
		ev.Stats.Checks++
		return Result{CheckSat: true}, nil
	case line.GetModel != nil:
		return Result{GetModel: true}, nil
	case line.Push != nil:
		return Result{}, ev.ctx.Push()
	case line.Pop != nil:
		return Result{}, ev.ctx.Pop()
	case line.Exit != nil:
		return Result{Exit: true}, nil
	default:
		return Result{}, fmt.Errorf("empty command line")
	}
}

func (ev *Evaluator) declareBV(cmd *DeclareBVCmd) error {
	if cmd.Width <= 0 {
		return fmt.Errorf("declare_bv %s: width must be positive", cmd.Name)
	}
	if _, exists := ev.vars[cmd.Name]; exists {
		return fmt.Errorf("declare_bv %s: already declared", cmd.Name)
	}
	ty, err := ev.ctx.Terms().BitVecType(uint32(cmd.Width))
	if err != nil {
		return err
	}
	ev.vars[cmd.Name] = ev.ctx.Terms().NewUninterpreted(ty)
	ev.Stats.Declared++
	return nil
}

func (ev *Evaluator) assert(cmd *AssertCmd) error {
	occ, err := ev.eval(cmd.Expr)
	if err != nil {
		return err
	}
	if !ev.ctx.Terms().IsBoolean(occ) {
		return fmt.Errorf("assert: expression is not Boolean")
	}
	if err := ev.ctx.Assert(occ); err != nil {
		return err
	}
	ev.Stats.Asserted++
	return nil
}

// eval resolves an Expr to a term occurrence. Bare identifiers must
// already be declared; bare integers are only meaningful inside a
// (const WIDTH VALUE) call, matching the grammar's deliberate choice
// not to infer a literal's width from context.
func (ev *Evaluator) eval(e *Expr) (term.Occ, error) {
	switch {
	case e.Ident != "":
		occ, ok := ev.vars[e.Ident]
		if !ok {
			return 0, fmt.Errorf("undeclared identifier %q", e.Ident)
		}
		return occ, nil
	case e.Integer != "":
		return 0, fmt.Errorf("bare integer literal %q: wrap it in (const WIDTH VALUE)", e.Integer)
	case e.Call != nil:
		return ev.evalCall(e.Call)
	default:
		return 0, fmt.Errorf("empty expression")
	}
}

func (ev *Evaluator) evalArgs(call *Call) ([]term.Occ, error) {
	out := make([]term.Occ, len(call.Args))
	for i, a := range call.Args {
		occ, err := ev.eval(a)
		if err != nil {
			return nil, err
		}
		out[i] = occ
	}
	return out, nil
}

func (ev *Evaluator) evalCall(call *Call) (term.Occ, error) {
	tbl := ev.ctx.Terms()

	if call.Op == "const" {
		return ev.evalConst(call)
	}

	op, ok := token.LookupOpcode(call.Op)
	if !ok {
		return 0, fmt.Errorf("unknown operator %q", call.Op)
	}
	args, err := ev.evalArgs(call)
	if err != nil {
		return 0, err
	}

	switch op {
	case token.OpEq:
		if len(args) != 2 {
			return 0, fmt.Errorf("= takes exactly 2 arguments")
		}
		return tbl.Eq(args[0], args[1])

	case token.OpDistinct:
		if len(args) < 2 {
			return 0, fmt.Errorf("distinct takes at least 2 arguments")
		}
		return tbl.Distinct(args)

	case token.OpNot:
		if len(args) != 1 {
			return 0, fmt.Errorf("not takes exactly 1 argument")
		}
		return tbl.Not(args[0])

	case token.OpAnd:
		if len(args) == 0 {
			return tbl.True(), nil
		}
		acc := args[0]
		for _, a := range args[1:] {
			na, err := tbl.Not(acc)
			if err != nil {
				return 0, err
			}
			nb, err := tbl.Not(a)
			if err != nil {
				return 0, err
			}
			orred, err := tbl.Or([]term.Occ{na, nb})
			if err != nil {
				return 0, err
			}
			acc, err = tbl.Not(orred)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil

	case token.OpOr:
		if len(args) == 0 {
			return tbl.Not(tbl.True())
		}
		return tbl.Or(args)

	case token.OpXor:
		if len(args) < 2 {
			return 0, fmt.Errorf("xor takes at least 2 arguments")
		}
		return tbl.Xor(args)

	case token.OpIte:
		if len(args) != 3 {
			return 0, fmt.Errorf("ite takes exactly 3 arguments")
		}
		return tbl.Ite(tbl.TypeOf(args[1]), args[0], args[1], args[2])

	case token.OpBVAdd:
		return ev.bvAdd(args)

	case token.OpBVMul:
		return ev.bvScale(args)

	case token.OpBVUdiv:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvudiv takes exactly 2 arguments")
		}
		return tbl.BVDiv(args[0], args[1])

	case token.OpBVUrem:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvurem takes exactly 2 arguments")
		}
		return tbl.BVRem(args[0], args[1])

	case token.OpBVShl:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvshl takes exactly 2 arguments")
		}
		return tbl.BVShl(args[0], args[1])

	case token.OpBVLshr:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvlshr takes exactly 2 arguments")
		}
		return tbl.BVLshr(args[0], args[1])

	case token.OpBVAshr:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvashr takes exactly 2 arguments")
		}
		return tbl.BVAshr(args[0], args[1])

	case token.OpBVUlt:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvult takes exactly 2 arguments")
		}
		ge, err := tbl.BVGeAtom(args[0], args[1])
		if err != nil {
			return 0, err
		}
		return tbl.Not(ge)

	case token.OpBVUge:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvuge takes exactly 2 arguments")
		}
		return tbl.BVGeAtom(args[0], args[1])

	case token.OpBVSge:
		if len(args) != 2 {
			return 0, fmt.Errorf("bvsge takes exactly 2 arguments")
		}
		return tbl.BVSgeAtom(args[0], args[1])

	default:
		return 0, fmt.Errorf("operator %q is not implemented by this CLI", call.Op)
	}
}

func (ev *Evaluator) evalConst(call *Call) (term.Occ, error) {
	if len(call.Args) != 2 {
		return 0, fmt.Errorf("const takes exactly 2 arguments: (const WIDTH VALUE)")
	}
	width, err := parseLiteral(call.Args[0])
	if err != nil {
		return 0, err
	}
	value, err := parseLiteral(call.Args[1])
	if err != nil {
		return 0, err
	}
	return ev.ctx.Terms().BV64Constant(uint32(width), value)
}

func parseLiteral(e *Expr) (uint64, error) {
	if e.Integer == "" {
		return 0, fmt.Errorf("expected an integer literal")
	}
	return strconv.ParseUint(e.Integer, 0, 64)
}

// bvAdd builds a BV64_POLY with every argument's coefficient set to 1,
// the mini-language's n-ary sum. Widths must already agree (checked the
// same way bvBinary checks its operands).
func (ev *Evaluator) bvAdd(args []term.Occ) (term.Occ, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("bvadd takes at least 2 arguments")
	}
	tbl := ev.ctx.Terms()
	width := tbl.Width(args[0])
	monos := make([]term.Mono64, len(args))
	for i, a := range args {
		if tbl.Width(a) != width {
			return 0, fmt.Errorf("bvadd: operand %d has mismatched width", i)
		}
		monos[i] = term.Mono64{Coeff: 1, Var: a}
	}
	return tbl.BV64Poly(width, monos)
}

// bvScale handles the one bvmul shape this CLI supports: a constant
// times a variable bit-vector, encoded directly as a single scaled
// monomial. General variable*variable multiplication needs a
// power-product term (internal/pprod), which this line-oriented
// demonstration script does not expose a syntax for.
func (ev *Evaluator) bvScale(args []term.Occ) (term.Occ, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("bvmul takes exactly 2 arguments")
	}
	tbl := ev.ctx.Terms()
	a, b := args[0], args[1]
	if tbl.Width(a) != tbl.Width(b) {
		return 0, fmt.Errorf("bvmul: operand width mismatch")
	}
	if coeff, ok := tbl.BV64ConstValue(a); ok {
		return tbl.BV64Poly(tbl.Width(b), []term.Mono64{{Coeff: coeff, Var: b}})
	}
	if coeff, ok := tbl.BV64ConstValue(b); ok {
		return tbl.BV64Poly(tbl.Width(a), []term.Mono64{{Coeff: coeff, Var: a}})
	}
	return 0, fmt.Errorf("bvmul: this CLI only supports constant * variable, not variable * variable")
}
