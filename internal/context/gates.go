package context

import "qfbv/internal/clause"

// These Tseytin gate helpers mirror bvsolver's (internal/bvsolver/
// gates.go), duplicated rather than shared because a context may run
// with config.ArchNoSolvers and no attached bvsolver.Solver at all:
// Boolean internalization must not depend on the bit-vector theory
// solver being present.

func (c *Context) freshLit() clause.Lit {
	return clause.MkLit(c.core.AddVar(), false)
}

func (c *Context) notLit(a clause.Lit) clause.Lit { return a.Neg() }

func (c *Context) andGate(a, b clause.Lit) clause.Lit {
	out := c.freshLit()
	c.core.AddClause([]clause.Lit{out.Neg(), a})         //nolint:errcheck
	c.core.AddClause([]clause.Lit{out.Neg(), b})         //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, a.Neg(), b.Neg()}) //nolint:errcheck
	return out
}

func (c *Context) orGate(a, b clause.Lit) clause.Lit {
	out := c.freshLit()
	c.core.AddClause([]clause.Lit{out, a.Neg()})    //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, b.Neg()})    //nolint:errcheck
	c.core.AddClause([]clause.Lit{out.Neg(), a, b}) //nolint:errcheck
	return out
}

func (c *Context) xorGate(a, b clause.Lit) clause.Lit {
	out := c.freshLit()
	c.core.AddClause([]clause.Lit{out.Neg(), a, b})           //nolint:errcheck
	c.core.AddClause([]clause.Lit{out.Neg(), a.Neg(), b.Neg()}) //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, a.Neg(), b})           //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, a, b.Neg()})           //nolint:errcheck
	return out
}

// iffGate returns a literal equivalent to (a <-> b): the negation of
// xorGate's output, without allocating a second fresh variable.
func (c *Context) iffGate(a, b clause.Lit) clause.Lit {
	return c.xorGate(a, b).Neg()
}

func (c *Context) iteGate(cond, a, b clause.Lit) clause.Lit {
	out := c.freshLit()
	c.core.AddClause([]clause.Lit{out.Neg(), cond.Neg(), a}) //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, cond.Neg(), a.Neg()}) //nolint:errcheck
	c.core.AddClause([]clause.Lit{out.Neg(), cond, b})       //nolint:errcheck
	c.core.AddClause([]clause.Lit{out, cond, b.Neg()})       //nolint:errcheck
	return out
}

// trueLit returns a literal fixed true at level 0, allocating and
// unit-asserting the underlying variable the first time it is needed.
func (c *Context) trueLit() clause.Lit {
	if c.trueVar < 0 {
		v := c.core.AddVar()
		c.trueVar = v
		c.core.AddClause([]clause.Lit{clause.MkLit(v, false)}) //nolint:errcheck
	}
	return clause.MkLit(c.trueVar, false)
}
