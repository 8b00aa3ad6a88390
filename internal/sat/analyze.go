package sat

import "qfbv/internal/clause"

// analyze performs first-UIP conflict analysis (spec.md §4.4 Conflict
// analysis): walk the trail from the top, resolving the conflict
// clause against the antecedents of current-level variables until
// exactly one current-level literal remains. Returns the learned
// clause (asserting literal first) and the backtrack level.
func (s *Solver) analyze(c *conflict) ([]clause.Lit, int32) {
	seen := make(map[int32]bool, len(s.vars))
	learned := []clause.Lit{0} // placeholder for the asserting literal
	counter := 0
	trailIdx := len(s.trail) - 1
	var pendingLit clause.Lit
	havePending := false

	resolve := func(lits []clause.Lit) {
		for _, l := range lits {
			v := l.Var()
			if seen[v] {
				continue
			}
			seen[v] = true
			s.bumpVarActivity(v)
			if s.vars[v].level == s.level {
				counter++
			} else if s.vars[v].level > 0 {
				learned = append(learned, l)
			}
			// level-0 literals are always false and contribute nothing
			// to the learned clause.
		}
	}

	resolve(c.literals(s))

	for {
		for trailIdx >= 0 && !seen[s.trail[trailIdx].Var()] {
			trailIdx--
		}
		if trailIdx < 0 {
			break
		}
		l := s.trail[trailIdx]
		v := l.Var()
		seen[v] = false
		counter--
		trailIdx--
		if counter == 0 {
			pendingLit = l.Neg()
			havePending = true
			break
		}
		resolve(s.reasonLits(l))
	}

	if havePending {
		learned[0] = pendingLit
	} else if len(learned) > 1 {
		// Degenerate case: conflict already at level 0 with no
		// current-level literal (trivially unsat branch handled by
		// caller); keep the clause as collected.
		learned = learned[1:]
	} else {
		learned = learned[:1]
	}

	learned = s.minimize(learned, seen)

	level := int32(0)
	for _, l := range learned[1:] {
		if lv := s.vars[l.Var()].level; lv > level {
			level = lv
		}
	}
	return learned, level
}

// minimize removes any learned literal whose antecedent's literals are
// all already in the clause or previously marked seen
// (self-subsumption minimization, spec.md §4.4).
func (s *Solver) minimize(learned []clause.Lit, seen map[int32]bool) []clause.Lit {
	if len(learned) <= 1 {
		return learned
	}
	out := learned[:1]
	for _, l := range learned[1:] {
		if s.vars[l.Var()].level == 0 {
			continue
		}
		if s.redundant(l, seen) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// redundant reports whether l's assignment is implied by other literals
// already present in the learned clause (tracked via seen), so l can be
// dropped without weakening the clause.
func (s *Solver) redundant(l clause.Lit, seen map[int32]bool) bool {
	reasons := s.reasonLits(l.Neg())
	if reasons == nil {
		return false
	}
	for _, r := range reasons {
		if s.vars[r.Var()].level == 0 {
			continue
		}
		if !seen[r.Var()] {
			return false
		}
	}
	return true
}

// backtrack undoes all assignments made at decision levels > toLevel.
func (s *Solver) backtrack(toLevel int32) {
	if int(toLevel) >= len(s.trailLevels) {
		return
	}
	cut := s.trailLevels[toLevel]
	for i := len(s.trail) - 1; i >= cut; i-- {
		v := s.trail[i].Var()
		s.vars[v].value = Unknown
		s.heap.push(v, s.vars[v].activity)
	}
	s.trail = s.trail[:cut]
	s.trailLevels = s.trailLevels[:toLevel]
	s.level = toLevel
}

// learn installs a learned clause (asserting literal first) and
// immediately assigns it, driving BCP's next iteration.
func (s *Solver) learn(lits []clause.Lit) {
	s.learnedCount++
	s.bumpClauseActivity()
	switch len(lits) {
	case 1:
		s.assign(lits[0], 0, AntecedentUnit, 0, 0)
	case 2:
		s.watches.AddBinary(lits[0], lits[1])
		s.assign(lits[0], s.level, AntecedentBinary, lits[1], 0)
	default:
		off, _ := s.pool.Add(lits, 0)
		s.watches.AddClause(off, lits[0], lits[1])
		s.assign(lits[0], s.level, AntecedentClause, 0, off)
	}
}

func (s *Solver) bumpClauseActivity() {
	s.clauseActInc *= s.clauseDecay
}
