package context

import (
	"qfbv/internal/config"
	"qfbv/internal/term"
)

// flattenTopLevel expands f into the list of top-level conjuncts it
// implies directly, without altering satisfiability (spec.md §5 step
// 1): a negated n-ary OR is De Morgan-split into its negated
// disjuncts, each becoming its own top-level conjunct, when
// config.FlattenOr is enabled. Anything else is returned unchanged as
// a single conjunct.
func (c *Context) flattenTopLevel(f term.Occ) []term.Occ {
	if !c.opts.Has(config.FlattenOr) {
		return []term.Occ{f}
	}
	if c.terms.KindOf(f) != term.KindOr || !f.IsNegated() {
		return []term.Occ{f}
	}
	args, ok := c.terms.List(f)
	if !ok {
		return []term.Occ{f}
	}
	out := make([]term.Occ, 0, len(args))
	for _, a := range args {
		out = append(out, a.Not())
	}
	return out
}

// recordCandidateSubstitution inspects a top-level conjunct and, when
// it is an equality between an as-yet-unconstrained UNINTERPRETED term
// and some other term, records a candidate substitution in the
// union-find table -- but only after confirming it introduces no
// cycle through the substitutions already committed (spec.md §5 step
// 3-4). internalizeBool/internalizeBV resolve through this union-find
// before internalizing (their Find(idx) call), so a variable committed
// here never gets its own SAT variable or theory variable: it resolves
// straight through to whatever other internalizes to.
func (c *Context) recordCandidateSubstitution(conjunct term.Occ) {
	if !c.opts.Has(config.EqAbstraction) {
		return
	}
	if c.terms.KindOf(conjunct) != term.KindEq || conjunct.IsNegated() {
		return
	}
	left, right, ok := c.terms.Pair(conjunct)
	if !ok {
		return
	}
	var varOcc, other term.Occ
	switch {
	case c.terms.KindOf(left) == term.KindUninterpreted:
		varOcc, other = left, right
	case c.terms.KindOf(right) == term.KindUninterpreted:
		varOcc, other = right, left
	default:
		return
	}

	edges := func(idx term.Index) []term.Index {
		if idx == varOcc.Index() {
			return []term.Index{other.Index()}
		}
		return nil
	}
	if c.in.HasCycle(varOcc.Index(), edges) {
		return
	}
	c.in.Substitute(varOcc.Index(), other.Index())
}
