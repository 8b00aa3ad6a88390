package sat

import "qfbv/internal/clause"

// conflict records the clause (or binary pair) that produced a BCP
// conflict, in a form analyze can resolve against uniformly.
type conflict struct {
	// For a clause-pool conflict, off is set and binary is false.
	off    clause.Offset
	binary bool
	// For a binary-clause conflict, lits holds both literals.
	lits [2]clause.Lit
}

// propagate runs BCP to a fixpoint starting from qHead, the first
// not-yet-processed trail position. It returns the conflicting clause,
// if any (spec.md §4.4 Propagation).
func (s *Solver) propagate(qHead int) (int, *conflict) {
	for qHead < len(s.trail) {
		l := s.trail[qHead]
		qHead++
		falseLit := l.Neg()

		recs := s.watches.List(falseLit)
		kept := recs[:0]
		for i := 0; i < len(recs); i++ {
			rec := recs[i]
			if rec.IsBinary() {
				other := rec.OtherLit()
				switch s.value(other) {
				case True:
					kept = append(kept, rec)
				case False:
					kept = append(kept, recs[i+1:]...)
					s.watches.Set(falseLit, kept)
					return qHead, &conflict{binary: true, lits: [2]clause.Lit{falseLit, other}}
				default:
					s.assign(other, s.level, AntecedentBinary, falseLit, 0)
					kept = append(kept, rec)
				}
				continue
			}

			off := rec.Offset()
			lits := s.pool.Lits(off)
			// Normalize so lits[0] is the one that just became false.
			if lits[0] != falseLit {
				lits[0], lits[1] = lits[1], lits[0]
				s.pool.SwapLits(off, 0, 1)
			}
			if s.value(lits[1]) == True {
				kept = append(kept, rec)
				continue
			}

			found := false
			for k := 2; k < len(lits); k++ {
				if s.value(lits[k]) != False {
					s.pool.SwapLits(off, 0, k)
					newWatch := lits[k]
					s.watches.Add(newWatch, rec)
					found = true
					break
				}
			}
			if found {
				continue
			}

			if s.value(lits[1]) == False {
				kept = append(kept, recs[i+1:]...)
				s.watches.Set(falseLit, kept)
				return qHead, &conflict{off: off}
			}
			s.assign(lits[1], s.level, AntecedentClause, 0, off)
			kept = append(kept, rec)
		}
		s.watches.Set(falseLit, kept)
	}
	return qHead, nil
}

// reasonLits returns the literals of the clause that forced l's
// assignment (the antecedent), excluding l itself, for use by analyze.
func (s *Solver) reasonLits(l clause.Lit) []clause.Lit {
	v := &s.vars[l.Var()]
	switch v.antKind {
	case AntecedentBinary:
		return []clause.Lit{v.antLit}
	case AntecedentClause:
		lits := s.pool.Lits(v.antClause)
		out := make([]clause.Lit, 0, len(lits)-1)
		for _, x := range lits {
			if x != l {
				out = append(out, x)
			}
		}
		return out
	default:
		return nil
	}
}

func (c *conflict) literals(p *Solver) []clause.Lit {
	if c.binary {
		return []clause.Lit{c.lits[0], c.lits[1]}
	}
	return p.pool.Lits(c.off)
}
