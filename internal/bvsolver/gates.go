package bvsolver

import "qfbv/internal/clause"

// freshLit allocates a new SAT variable and returns its positive
// literal, the building block every gate constructor below uses for
// its output.
func (s *Solver) freshLit() clause.Lit {
	return clause.MkLit(s.core.AddVar(), false)
}

// andGate returns a literal equivalent to (a AND b), asserting the
// three Tseytin clauses that pin it to that definition:
// (¬out ∨ a), (¬out ∨ b), (out ∨ ¬a ∨ ¬b).
func (s *Solver) andGate(a, b clause.Lit) clause.Lit {
	out := s.freshLit()
	s.core.AddClause([]clause.Lit{out.Neg(), a})        //nolint:errcheck
	s.core.AddClause([]clause.Lit{out.Neg(), b})        //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, a.Neg(), b.Neg()}) //nolint:errcheck
	return out
}

// orGate returns a literal equivalent to (a OR b).
func (s *Solver) orGate(a, b clause.Lit) clause.Lit {
	out := s.freshLit()
	s.core.AddClause([]clause.Lit{out, a.Neg()})        //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, b.Neg()})        //nolint:errcheck
	s.core.AddClause([]clause.Lit{out.Neg(), a, b})       //nolint:errcheck
	return out
}

// xorGate returns a literal equivalent to (a XOR b).
func (s *Solver) xorGate(a, b clause.Lit) clause.Lit {
	out := s.freshLit()
	s.core.AddClause([]clause.Lit{out.Neg(), a, b})         //nolint:errcheck
	s.core.AddClause([]clause.Lit{out.Neg(), a.Neg(), b.Neg()}) //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, a.Neg(), b})         //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, a, b.Neg()})         //nolint:errcheck
	return out
}

// iteGate returns a literal equivalent to (if c then a else b).
func (s *Solver) iteGate(c, a, b clause.Lit) clause.Lit {
	out := s.freshLit()
	s.core.AddClause([]clause.Lit{out.Neg(), c.Neg(), a})   //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, c.Neg(), a.Neg()})   //nolint:errcheck
	s.core.AddClause([]clause.Lit{out.Neg(), c, b})         //nolint:errcheck
	s.core.AddClause([]clause.Lit{out, c, b.Neg()})         //nolint:errcheck
	return out
}

// notLit returns the logical negation of a literal -- a pure bit flip,
// never needing a fresh variable.
func notLit(a clause.Lit) clause.Lit { return a.Neg() }

// CreateBVITE bit-blasts a bit-vector ITE over two equal-width theory
// variables, selecting each result bit with an independent iteGate
// (spec.md `create_bvite`).
func (s *Solver) CreateBVITE(cond clause.Lit, a, b Var) (Var, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("create_bvite")
	}
	out := make([]clause.Lit, len(s.bits[a]))
	for i := range out {
		out[i] = s.iteGate(cond, s.bits[a][i], s.bits[b][i])
	}
	return s.register(out), nil
}
