// Package sat implements the CDCL search core of spec.md §4.4-§4.5:
// watched-literal BCP over the clause package's packed pool, first-UIP
// conflict analysis with self-subsumption minimization, VSIDS
// branching, Luby restarts, and periodic learned-clause reduction.
//
// Grounded structurally on the teacher's worker-pool/queue shape
// (hashicorp-nomad's scheduler loop was consulted for the
// propagate-until-fixpoint idiom) but the algorithm itself follows
// original_source/smt_core.c's CDCL loop, which spec.md §4.4-§4.5
// describe directly.
package sat

import (
	"qfbv/internal/clause"
	qerrors "qfbv/internal/errors"
)

// Value is a variable's current truth assignment.
type Value uint8

const (
	Unknown Value = iota
	False
	True
)

// AntecedentKind tags why a variable was assigned.
type AntecedentKind uint8

const (
	AntecedentNone AntecedentKind = iota
	AntecedentDecision
	AntecedentUnit // forced at level 0 by a unit clause
	AntecedentBinary
	AntecedentClause
)

type varInfo struct {
	value     Value
	level     int32
	antKind   AntecedentKind
	antLit    clause.Lit    // AntecedentBinary: the other literal
	antClause clause.Offset // AntecedentClause: the reason clause
	activity  float64
	polarity  bool // preferred polarity for the next decision
}

// Status is the outcome of Solve.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSAT
	StatusUNSAT
	StatusInterrupted
)

// Solver is one incremental CDCL search instance over a fixed variable
// count, growable by AddVar.
type Solver struct {
	pool    *clause.Pool
	watches *clause.Watches

	vars  []varInfo
	trail []clause.Lit
	// trailLevels[i] is the trail length at the start of decision level
	// i+1 (level 0 starts at trail position 0).
	trailLevels []int

	level int32

	// assumptions are decided in order, one per decision level, before
	// the solver branches on its own (SolveAssuming). Context's push/pop
	// frames are built on this: each frame's guard literal is threaded
	// in here only while the frame is active.
	assumptions []clause.Lit

	heap *vsidsHeap

	actInc  float64
	actDecay float64

	clauseActInc  float64
	clauseDecay   float64

	rng rngState

	conflictCount  uint64
	restartCount   uint64
	lubyIndex      uint64
	restartBase    uint64

	reduceThreshold uint64
	learnedCount    uint64

	interrupted bool // polled, never protected by the context lock

	cleanInterrupt bool
	preInterruptTrailLen int
}

// NewSolver returns an empty solver whose clause pool may grow to at
// most poolCap words (0 means unbounded).
func NewSolver(poolCap int) *Solver {
	s := &Solver{
		pool:         clause.NewPool(poolCap),
		watches:      clause.NewWatches(),
		actInc:       1.0,
		actDecay:     1 / 0.95,
		clauseActInc: 1.0,
		clauseDecay:  1 / 0.999,
		rng:          newRNGState(0xC0FFEE),
		restartBase:  100,
		reduceThreshold: 2000,
	}
	s.heap = newVSIDSHeap()
	return s
}

// AddVar allocates a fresh variable and returns its 0-based index.
func (s *Solver) AddVar() int32 {
	v := int32(len(s.vars))
	s.vars = append(s.vars, varInfo{value: Unknown})
	s.heap.push(v, 0)
	return v
}

// NumVars returns the current variable count.
func (s *Solver) NumVars() int { return len(s.vars) }

// Value returns the current truth value of literal l, for reading back
// a satisfying assignment (e.g. bvsolver.BuildModel).
func (s *Solver) Value(l clause.Lit) Value { return s.value(l) }

// value returns the current truth value of literal l.
func (s *Solver) value(l clause.Lit) Value {
	v := s.vars[l.Var()].value
	if v == Unknown {
		return Unknown
	}
	if l.Sign() {
		if v == True {
			return False
		}
		return True
	}
	return v
}

// AddClause adds a problem clause. Clauses of length 1 are assigned at
// once as unit antecedents at level 0 (a unit contradicting an earlier
// one reports TriviallyUnsat); length 2 use the inlined binary watch
// records; length >= 3 use the packed pool. Clauses of length >= 2 are
// only registered here: propagation and conflict detection on them
// happen in the next Solve.
func (s *Solver) AddClause(lits []clause.Lit) error {
	switch len(lits) {
	case 0:
		return qerrors.New(qerrors.TriviallyUnsat, "empty clause asserted")
	case 1:
		return s.enqueueUnit(lits[0])
	case 2:
		s.watches.AddBinary(lits[0], lits[1])
		return nil
	default:
		off, err := s.pool.Add(lits, 0)
		if err != nil {
			return err
		}
		s.watches.AddClause(off, lits[0], lits[1])
		return nil
	}
}

func (s *Solver) enqueueUnit(l clause.Lit) error {
	s.backtrack(0)
	switch s.value(l) {
	case True:
		return nil
	case False:
		return qerrors.New(qerrors.TriviallyUnsat, "conflicting unit clauses")
	}
	s.assign(l, 0, AntecedentUnit, 0, 0)
	return nil
}

func (s *Solver) assign(l clause.Lit, level int32, kind AntecedentKind, antLit clause.Lit, antClause clause.Offset) {
	v := &s.vars[l.Var()]
	v.value = True
	if l.Sign() {
		v.value = False
	}
	v.level = level
	v.antKind = kind
	v.antLit = antLit
	v.antClause = antClause
	v.polarity = !l.Sign()
	s.trail = append(s.trail, l)
}

// bumpVarActivity increases v's VSIDS activity, rescaling every
// variable's activity and the running increment when it would
// overflow (spec.md §4.4: "rescale all activities when any exceeds
// 10^20").
func (s *Solver) bumpVarActivity(v int32) {
	s.vars[v].activity += s.actInc
	s.heap.bump(v, s.actInc)
	if s.vars[v].activity > 1e20 {
		for i := range s.vars {
			s.vars[i].activity *= 1e-20
		}
		s.heap.rescale(1e-20)
		s.actInc *= 1e-20
	}
}

func (s *Solver) decayVarActivity() {
	s.actInc *= s.actDecay
}

func (s *Solver) beginDecisionLevel() {
	s.level++
	s.trailLevels = append(s.trailLevels, len(s.trail))
}
