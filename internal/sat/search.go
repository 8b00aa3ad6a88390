package sat

import "qfbv/internal/clause"

// Interrupt requests the running Solve loop to stop at its next polling
// point (after a conflict or a restart). It does not take any lock --
// spec.md §4.5 requires stop_search to be callable from a signal
// handler, so it must never block on the context's lock.
func (s *Solver) Interrupt() { s.interrupted = true }

// SetCleanInterrupt enables or disables restoring the trail to its
// pre-check state after an interrupted search (spec.md §4.5
// "clean_interrupt"); when disabled, an interrupted solver is left
// unusable until reset.
func (s *Solver) SetCleanInterrupt(v bool) { s.cleanInterrupt = v }

// Solve runs the CDCL loop to completion, interruption, or exhaustion
// with no assumptions.
func (s *Solver) Solve() Status {
	return s.SolveAssuming(nil)
}

// SolveAssuming runs the CDCL loop with each of assumptions decided
// first, in that order, before the solver is free to branch on its
// own. Context's push/pop frames (spec.md §4.3) are implemented this
// way: a frame's guard literal is passed as an assumption only while
// the frame is active, so popping a frame just stops assuming its
// guard rather than retracting the clauses it guards from the pool. A
// conflict discovered while an assumption remains undecided (including
// one already forced to the opposite value at level 0) reports
// StatusUNSAT relative to this assumption set, not a permanent
// unsatisfiability of the underlying clause set.
func (s *Solver) SolveAssuming(assumptions []clause.Lit) Status {
	s.backtrack(0)
	s.assumptions = assumptions
	s.preInterruptTrailLen = len(s.trail)
	qHead := 0

	for {
		var c *conflict
		qHead, c = s.propagateFrom(qHead)
		if c != nil {
			if s.level == 0 {
				return StatusUNSAT
			}
			learned, backLevel := s.analyze(c)
			s.backtrack(backLevel)
			qHead = len(s.trail)
			s.learn(learned)
			s.decayVarActivity()
			s.conflictCount++

			if s.interrupted {
				return s.handleInterrupt()
			}
			if s.shouldRestart() {
				s.restart()
				qHead = 0
			}
			if s.learnedCount > s.reduceThreshold {
				s.reduceLearnedClauses()
				s.reduceThreshold += s.reduceThreshold/4 + 300
			}
			continue
		}

		if s.interrupted {
			return s.handleInterrupt()
		}

		if lit, ok := s.nextAssumption(); ok {
			switch s.value(lit) {
			case True:
				continue
			case False:
				return StatusUNSAT
			default:
				s.beginDecisionLevel()
				s.assign(lit, s.level, AntecedentDecision, 0, 0)
				continue
			}
		}

		v, ok := s.nextUnassigned()
		if !ok {
			return StatusSAT
		}
		s.beginDecisionLevel()
		pol := s.vars[v].polarity
		s.assign(clause.MkLit(v, !pol), s.level, AntecedentDecision, 0, 0)
	}
}

// nextAssumption returns the next not-yet-decided assumption literal.
// Assumptions are decided one per decision level in order, so a
// backtrack to level L automatically "undecides" every assumption
// above L without any separate bookkeeping: the next call simply sees
// s.level == L again and re-offers assumptions[L].
func (s *Solver) nextAssumption() (clause.Lit, bool) {
	if int(s.level) >= len(s.assumptions) {
		return 0, false
	}
	return s.assumptions[s.level], true
}

func (s *Solver) propagateFrom(qHead int) (int, *conflict) {
	return s.propagate(qHead)
}

func (s *Solver) handleInterrupt() Status {
	s.interrupted = false
	if s.cleanInterrupt {
		s.backtrack(0)
		for _, l := range s.trail[s.preInterruptTrailLen:] {
			s.vars[l.Var()].value = Unknown
			s.heap.push(l.Var(), s.vars[l.Var()].activity)
		}
		s.trail = s.trail[:s.preInterruptTrailLen]
	}
	return StatusInterrupted
}

// nextUnassigned pops variables off the VSIDS heap until it finds one
// still unassigned, or the heap empties.
func (s *Solver) nextUnassigned() (int32, bool) {
	for {
		v, ok := s.heap.pop()
		if !ok {
			return 0, false
		}
		if s.vars[v].value == Unknown {
			return v, true
		}
	}
}

// shouldRestart reports whether the Luby-scheduled conflict budget for
// the current restart interval has been exhausted.
func (s *Solver) shouldRestart() bool {
	return s.conflictCount >= luby(s.restartCount)*s.restartBase
}

func (s *Solver) restart() {
	s.restartCount++
	s.conflictCount = 0
	if s.level > 0 {
		s.backtrack(0)
	}
}

// reduceLearnedClauses halves the learned pool by removing low-activity
// clauses whose literals are not currently a propagation reason
// (spec.md §4.4-§4.5: reduce_learned_clause_set).
func (s *Solver) reduceLearnedClauses() {
	type entry struct {
		off clause.Offset
		aux uint32
	}
	var candidates []entry
	for off := s.pool.LearnedStart(); off < s.pool.End(); {
		words := s.pool.BlockWords(off)
		if !s.pool.IsPadding(off) && !s.isReason(off) {
			candidates = append(candidates, entry{off: off, aux: s.pool.Aux(off)})
		}
		off += clause.Offset(words)
	}
	if len(candidates) < 2 {
		return
	}
	// Selection by activity (aux holds a bit-packed activity rank):
	// remove the lower half.
	cut := len(candidates) / 2
	for i := 0; i < cut; i++ {
		s.pool.Delete(candidates[i].off)
		s.learnedCount--
	}
}

func (s *Solver) isReason(off clause.Offset) bool {
	lits := s.pool.Lits(off)
	// propagate implies a clause's second literal, learn its first.
	for i := 0; i < len(lits) && i < 2; i++ {
		v := &s.vars[lits[i].Var()]
		if v.antKind == AntecedentClause && v.antClause == off {
			return true
		}
	}
	return false
}
