package context

import (
	"qfbv/internal/bvsolver"
	"qfbv/internal/clause"
	qerrors "qfbv/internal/errors"
	"qfbv/internal/intern"
	"qfbv/internal/term"
)

// internalizeAndAssert internalizes f into a literal and asserts it
// (spec.md §5 step 7's internalization walk feeding step 8's
// lowering). When a push/pop frame is open, the clause is extended
// with the frame's negated guard literal so it only binds while
// CheckSat assumes that frame's guard true (spec.md §4.3's push/pop).
func (c *Context) internalizeAndAssert(f term.Occ) error {
	lit, err := c.litFor(f)
	if err != nil {
		return err
	}
	lits := []clause.Lit{lit}
	if guard, ok := c.activeGuard(); ok {
		lits = append(lits, guard.Neg())
	}
	return c.core.AddClause(lits)
}

// activeGuard returns the guard literal of the innermost open push/pop
// frame, if any.
func (c *Context) activeGuard() (clause.Lit, bool) {
	if len(c.frames) == 0 {
		return 0, false
	}
	return c.frames[len(c.frames)-1].guard, true
}

// litFor returns the SAT literal for occurrence occ, applying occ's
// polarity bit to the cached literal of its underlying term index.
func (c *Context) litFor(occ term.Occ) (clause.Lit, error) {
	base, err := c.internalizeBool(occ.Index())
	if err != nil {
		return 0, err
	}
	if occ.IsNegated() {
		return base.Neg(), nil
	}
	return base, nil
}

// internalizeBool returns the literal for the positive occurrence of
// idx, memoized in the internalization union-find table. idx is
// resolved through any committed candidate substitution first (Find),
// so a variable unioned away by recordCandidateSubstitution builds
// from its substitution target's term structure instead of its own.
func (c *Context) internalizeBool(idx term.Index) (clause.Lit, error) {
	idx = c.in.Find(idx)
	if lit, ok := c.in.LiteralOf(idx); ok {
		return lit, nil
	}
	pos := term.MkOcc(idx, false)
	lit, err := c.buildBool(pos)
	if err != nil {
		return 0, err
	}
	c.in.SetLiteral(idx, intern.Lit(lit))
	return lit, nil
}

func (c *Context) buildBool(occ term.Occ) (clause.Lit, error) {
	idx := occ.Index()
	if idx == term.TrueIndex {
		return c.trueLit(), nil
	}
	switch k := c.terms.KindOf(occ); k {
	case term.KindConstant, term.KindUninterpreted:
		return clause.MkLit(c.core.AddVar(), false), nil

	case term.KindITE:
		cond, then, els, _ := c.terms.ITEParts(occ)
		if c.terms.IsBoolean(then) {
			cl, err := c.litFor(cond)
			if err != nil {
				return 0, err
			}
			tl, err := c.litFor(then)
			if err != nil {
				return 0, err
			}
			el, err := c.litFor(els)
			if err != nil {
				return 0, err
			}
			return c.iteGate(cl, tl, el), nil
		}
		return 0, qerrors.New(qerrors.TypeError, "ite: expected Boolean branches in a Boolean context")

	case term.KindEq:
		left, right, _ := c.terms.Pair(occ)
		return c.internalizeEq(left, right)

	case term.KindDistinct:
		args, _ := c.terms.List(occ)
		return c.internalizeDistinct(args)

	case term.KindOr:
		args, _ := c.terms.List(occ)
		return c.internalizeOr(args)

	case term.KindXor:
		args, _ := c.terms.List(occ)
		return c.internalizeXor(args)

	case term.KindBit:
		index, arg, _ := c.terms.BitSel(occ)
		v, err := c.internalizeBV(arg.Index())
		if err != nil {
			return 0, err
		}
		return c.bv.Bit(v, int(index)), nil

	case term.KindBVEqAtom, term.KindBVGeAtom, term.KindBVSgeAtom:
		left, right, _ := c.terms.Pair(occ)
		lv, err := c.internalizeBV(left.Index())
		if err != nil {
			return 0, err
		}
		rv, err := c.internalizeBV(right.Index())
		if err != nil {
			return 0, err
		}
		switch k {
		case term.KindBVEqAtom:
			return c.bv.Eq(lv, rv)
		case term.KindBVGeAtom:
			return c.bv.Ge(lv, rv)
		default:
			return c.bv.Sge(lv, rv)
		}

	default:
		return 0, qerrors.Newf(qerrors.InternalError, "internalize: kind %s has no Boolean encoding", k)
	}
}

func (c *Context) internalizeEq(left, right term.Occ) (clause.Lit, error) {
	key := [2]term.Index{left.Index(), right.Index()}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	if lit, ok := c.equalityCache[key]; ok {
		return lit, nil
	}

	var lit clause.Lit
	var err error
	if c.terms.IsBoolean(left) {
		ll, e1 := c.litFor(left)
		rl, e2 := c.litFor(right)
		if e1 != nil {
			return 0, e1
		}
		if e2 != nil {
			return 0, e2
		}
		lit = c.iffGate(ll, rl)
	} else {
		lv, e1 := c.internalizeBV(left.Index())
		rv, e2 := c.internalizeBV(right.Index())
		if e1 != nil {
			return 0, e1
		}
		if e2 != nil {
			return 0, e2
		}
		lit, err = c.bv.Eq(lv, rv)
		if err != nil {
			return 0, err
		}
	}
	c.equalityCache[key] = lit
	return lit, nil
}

func (c *Context) internalizeDistinct(args []term.Occ) (clause.Lit, error) {
	acc := c.trueLit()
	for i := 0; i < len(args); i++ {
		for j := i + 1; j < len(args); j++ {
			eq, err := c.internalizeEq(args[i], args[j])
			if err != nil {
				return 0, err
			}
			acc = c.andGate(acc, c.notLit(eq))
		}
	}
	return acc, nil
}

func (c *Context) internalizeOr(args []term.Occ) (clause.Lit, error) {
	if len(args) == 0 {
		return c.notLit(c.trueLit()), nil
	}
	acc, err := c.litFor(args[0])
	if err != nil {
		return 0, err
	}
	for _, a := range args[1:] {
		l, err := c.litFor(a)
		if err != nil {
			return 0, err
		}
		acc = c.orGate(acc, l)
	}
	return acc, nil
}

func (c *Context) internalizeXor(args []term.Occ) (clause.Lit, error) {
	acc, err := c.litFor(args[0])
	if err != nil {
		return 0, err
	}
	for _, a := range args[1:] {
		l, err := c.litFor(a)
		if err != nil {
			return 0, err
		}
		acc = c.xorGate(acc, l)
	}
	return acc, nil
}

// internalizeBV returns the bit-vector theory variable for the
// (always-positive) bit-vector term at idx, memoized in the
// internalization table. idx is resolved through any committed
// candidate substitution first (Find), the bit-vector counterpart of
// internalizeBool's resolution.
func (c *Context) internalizeBV(idx term.Index) (bvsolver.Var, error) {
	idx = c.in.Find(idx)
	if v, ok := c.in.TheoryVarOf(idx); ok {
		return bvsolver.Var(v), nil
	}
	occ := term.MkOcc(idx, false)
	v, err := c.buildBV(occ)
	if err != nil {
		return 0, err
	}
	c.in.SetTheoryVar(idx, intern.TheoryVar(v))
	return v, nil
}

func (c *Context) buildBV(occ term.Occ) (bvsolver.Var, error) {
	if c.bv == nil {
		return 0, qerrors.New(qerrors.BVNotSupported, "internalize: no bit-vector solver attached to this context")
	}
	width := c.terms.Width(occ)

	switch k := c.terms.KindOf(occ); k {
	case term.KindUninterpreted:
		return c.bv.CreateVar(width)

	case term.KindBV64Constant:
		val, _ := c.terms.BV64ConstValue(occ)
		return c.bv.CreateConst64(width, val)

	case term.KindBVConstant:
		words, _ := c.terms.BVConstWords(occ)
		return c.bv.CreateConst(width, words)

	case term.KindITE:
		cond, then, els, _ := c.terms.ITEParts(occ)
		cl, err := c.litFor(cond)
		if err != nil {
			return 0, err
		}
		tv, err := c.internalizeBV(then.Index())
		if err != nil {
			return 0, err
		}
		ev, err := c.internalizeBV(els.Index())
		if err != nil {
			return 0, err
		}
		return c.bv.CreateBVITE(cl, tv, ev)

	case term.KindBVArray:
		args, _ := c.terms.List(occ)
		lits := make([]clause.Lit, len(args))
		for i, a := range args {
			l, err := c.litFor(a)
			if err != nil {
				return 0, err
			}
			lits[i] = l
		}
		return c.bv.CreateBVArray(lits)

	case term.KindBVDiv, term.KindBVRem, term.KindBVSDiv, term.KindBVSRem, term.KindBVSMod,
		term.KindBVShl, term.KindBVLshr, term.KindBVAshr:
		left, right, _ := c.terms.Pair(occ)
		lv, err := c.internalizeBV(left.Index())
		if err != nil {
			return 0, err
		}
		rv, err := c.internalizeBV(right.Index())
		if err != nil {
			return 0, err
		}
		switch k {
		case term.KindBVDiv:
			return c.bv.BVDiv(lv, rv)
		case term.KindBVRem:
			return c.bv.BVRem(lv, rv)
		case term.KindBVSDiv:
			return c.bv.BVSDiv(lv, rv)
		case term.KindBVSRem:
			return c.bv.BVSRem(lv, rv)
		case term.KindBVSMod:
			return c.bv.BVSMod(lv, rv)
		case term.KindBVShl:
			return c.bv.BVShl(lv, rv)
		case term.KindBVLshr:
			return c.bv.BVLshr(lv, rv)
		default:
			return c.bv.BVAshr(lv, rv)
		}

	case term.KindPowerProduct:
		return c.internalizePprod(occ, width)

	case term.KindBV64Poly:
		return c.internalizePoly64(occ, width)

	case term.KindBVPoly:
		return c.internalizePoly(occ, width)

	default:
		return 0, qerrors.Newf(qerrors.InternalError, "internalize: kind %s has no bit-vector encoding", k)
	}
}

// internalizePprod relies on the convention established where a
// POWER_PRODUCT term's factors were built from pprod.Var values equal
// to the uint32 form of the base variable's term.Index (term.PprodTerm
// callers are responsible for upholding this; see internal/pprod's
// package doc for why pprod.Var cannot be term.Occ directly).
func (c *Context) internalizePprod(occ term.Occ, width uint32) (bvsolver.Var, error) {
	id, _ := c.terms.PprodOf(occ)
	factors := c.terms.Pprods().Factors(id)
	vars := make([]bvsolver.Var, len(factors))
	exps := make([]uint32, len(factors))
	for i, f := range factors {
		v, err := c.internalizeBV(term.Index(f.Var))
		if err != nil {
			return 0, err
		}
		vars[i] = v
		exps[i] = f.Exp
	}
	return c.bv.CreatePprod(width, vars, exps)
}

func (c *Context) internalizePoly64(occ term.Occ, width uint32) (bvsolver.Var, error) {
	monos, _ := c.terms.Poly64Of(occ)
	coeffs := make([]uint64, len(monos))
	vars := make([]bvsolver.Var, len(monos))
	for i, m := range monos {
		coeffs[i] = m.Coeff
		if m.Var == 0 {
			vars[i] = -1
			continue
		}
		v, err := c.internalizeBV(m.Var.Index())
		if err != nil {
			return 0, err
		}
		vars[i] = v
	}
	return c.bv.CreatePoly64(width, coeffs, vars)
}

func (c *Context) internalizePoly(occ term.Occ, width uint32) (bvsolver.Var, error) {
	monos, _ := c.terms.PolyOf(occ)
	coeffWords := make([][]uint32, len(monos))
	vars := make([]bvsolver.Var, len(monos))
	for i, m := range monos {
		coeffWords[i] = m.Coeff
		if m.Var == 0 {
			vars[i] = -1
			continue
		}
		v, err := c.internalizeBV(m.Var.Index())
		if err != nil {
			return 0, err
		}
		vars[i] = v
	}
	return c.bv.CreatePolyWords(width, coeffWords, vars)
}
