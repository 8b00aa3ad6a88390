// Package context implements the assertion/internalization pipeline of
// spec.md §5: flattening and classifying asserted formulas, recording
// candidate substitutions in a union-find table, internalizing the
// residual into Boolean literals and bit-vector theory variables, and
// driving the attached SAT core's push/pop/check-sat lifecycle.
//
// Grounded on original_source/context.c's assert_formula pipeline for
// the algorithm, and on the teacher's internal/semantic package for
// the walker shape (a table-driven recursive descent keyed by a node
// kind, generalized here from ast.Node to term.Occ/term.Kind).
package context

import (
	"github.com/segmentio/ksuid"

	"qfbv/internal/bvsolver"
	"qfbv/internal/clause"
	"qfbv/internal/config"
	qerrors "qfbv/internal/errors"
	"qfbv/internal/intern"
	"qfbv/internal/model"
	"qfbv/internal/sat"
	"qfbv/internal/symtab"
	"qfbv/internal/term"
)

// frame is a push/pop checkpoint (spec.md §5 Non-goals: "incremental
// interface beyond push/pop" is not supported, so Push/Pop are the
// only checkpoint operations; there is no resumable background
// search).
//
// guard is a fresh SAT variable allocated at Push time: every clause
// internalizeAndAssert adds for an assertion made while this frame is
// the innermost open one is extended with ¬guard, so it only binds
// while CheckSat assumes guard true (spec.md §4.3's push/pop). Popping
// the frame simply stops including guard among CheckSat's assumptions
// instead of retracting the clause from the pool -- the assumption-
// literal scoping spec.md §4.5 names as an alternative to clause
// deletion for a watched-literal pool.
type frame struct {
	id          string // ksuid label assigned at Push; not printed or read elsewhere
	assertions  int    // length of c.assertions at push time
	guard       clause.Lit
	internSnap  intern.Snapshot
	eqCacheSnap map[[2]term.Index]clause.Lit
}

// Context is one QF_BV solving session: a term table, the
// internalization map over it, a symbol table for named terms, the
// attached bit-vector theory solver, and the SAT core it lowers into.
type Context struct {
	mu mutex

	terms  *term.Table
	in     *intern.Table
	sym    *symtab.Table
	bv     *bvsolver.Solver
	core   *sat.Solver
	opts   config.Options
	arch   config.Architecture
	mode   config.Mode

	assertions []term.Occ
	frames     []frame
	trueVar    int32

	// equalityCache memoizes EQ(a,b) -> literal so re-asserting the same
	// equality does not redo the internalization walk (spec.md §5 step
	// 7). Pop restores it to its Push-time snapshot, so entries made
	// inside a popped frame are dropped.
	equalityCache map[[2]term.Index]clause.Lit
}

// New constructs a context for the given architecture, mode, and
// option set. Only ArchNoSolvers and ArchBV are implemented; any other
// architecture is rejected (spec.md §1 Non-goals).
func New(arch config.Architecture, mode config.Mode, opts config.Options) (*Context, error) {
	if !arch.Supported() {
		return nil, qerrors.Newf(qerrors.LogicNotSupported, "architecture %s is not supported", arch)
	}
	core := sat.NewSolver(0)
	c := &Context{
		terms:         term.NewTable(),
		in:            intern.New(),
		sym:           symtab.New(),
		core:          core,
		opts:          opts,
		arch:          arch,
		mode:          mode,
		equalityCache: make(map[[2]term.Index]clause.Lit),
		trueVar:       -1,
	}
	if arch == config.ArchBV {
		c.bv = bvsolver.New(core)
	}
	return c, nil
}

// Terms exposes the term table so callers build formulas to assert.
func (c *Context) Terms() *term.Table { return c.terms }

// Assert adds f as a new top-level conjunct. It flattens f, records
// candidate substitutions from its conjuncts, and internalizes f
// (spec.md §5) before any literal reaches the SAT core.
func (c *Context) Assert(f term.Occ) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, conjunct := range c.flattenTopLevel(f) {
		c.assertions = append(c.assertions, conjunct)
		c.recordCandidateSubstitution(conjunct)
	}
	return c.internalizeAndAssert(f)
}

// Push opens a new push/pop frame (spec.md §5; requires ModePushPop or
// ModeInteractive). A fresh guard variable is allocated for the frame
// and the internalization table and equality cache are snapshotted so
// Pop can rewind them (spec.md §4.3).
func (c *Context) Push() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != config.ModePushPop && c.mode != config.ModeInteractive {
		return qerrors.New(qerrors.InternalError, "push: context mode does not support push/pop")
	}
	guardVar := c.core.AddVar()
	c.frames = append(c.frames, frame{
		id:          ksuid.New().String(),
		assertions:  len(c.assertions),
		guard:       clause.MkLit(guardVar, false),
		internSnap:  c.in.Snapshot(),
		eqCacheSnap: cloneEqualityCache(c.equalityCache),
	})
	return nil
}

// Pop restores the context to the state at the matching Push: the
// assertion log, the internalization table, and the equality cache are
// all rewound to their Push-time snapshots (spec.md §4.3).
//
// The frame's guard literal is simply dropped from future CheckSat
// assumption sets once popped, rather than retracted from the SAT
// core's clause pool: every clause an assertion under this frame added
// carries ¬guard, so once guard is no longer assumed true the solver
// is free to satisfy it by setting guard false, trivially satisfying
// those clauses without touching the watched-literal pool (spec.md
// §4.5's assumption-literal scoping of an otherwise append-only pool).
// Learned clauses derived while the frame was open remain in the pool;
// since they were derived from clauses that are always satisfiable via
// guard=false, they stay sound after the pop.
func (c *Context) Pop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return qerrors.New(qerrors.InternalError, "pop: no matching push")
	}
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.assertions = c.assertions[:top.assertions]
	c.in.RestoreTo(top.internSnap)
	c.equalityCache = top.eqCacheSnap
	return nil
}

// CheckSat runs the attached SAT core to completion and reports the
// result (spec.md §6). Every currently open frame's guard literal is
// assumed true, so only the clauses asserted under open frames bind;
// a popped frame's clauses are left free to satisfy via its guard.
func (c *Context) CheckSat() sat.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	assumptions := make([]clause.Lit, len(c.frames))
	for i, f := range c.frames {
		assumptions[i] = f.guard
	}
	return c.core.SolveAssuming(assumptions)
}

func cloneEqualityCache(cache map[[2]term.Index]clause.Lit) map[[2]term.Index]clause.Lit {
	clone := make(map[[2]term.Index]clause.Lit, len(cache))
	for k, v := range cache {
		clone[k] = v
	}
	return clone
}

// GC runs a mark-and-sweep collection over the term table (spec.md
// §4.1: "mark-and-sweep, externally triggered ... marks roots set by
// the user, symbol-table entries, and predefined constants"). Roots
// are every live assertion, every index bound in the symbol table,
// and every index the internalization table holds a node for --
// including each open push/pop frame's pre-frame snapshot, so a
// later Pop does not rewind into a collected entry. After the sweep,
// every table that stores term indices is remapped to match the
// compacted term table.
func (c *Context) GC() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.assertions {
		c.terms.Mark(a)
	}
	for _, idx := range c.sym.Indices() {
		c.terms.Mark(term.MkOcc(idx, false))
	}
	for _, idx := range c.in.Indices() {
		c.terms.Mark(term.MkOcc(idx, false))
	}
	for _, f := range c.frames {
		for _, idx := range f.internSnap.Indices() {
			c.terms.Mark(term.MkOcc(idx, false))
		}
	}

	remap := c.terms.Sweep()

	for i, a := range c.assertions {
		c.assertions[i] = term.MkOcc(remap[a.Index()], a.IsNegated())
	}
	c.sym.Remap(remap)
	c.in.Remap(remap)
	remapEqualityCache(c.equalityCache, remap)
	for i := range c.frames {
		remapEqualityCache(c.frames[i].eqCacheSnap, remap)
		c.frames[i].internSnap = c.frames[i].internSnap.Remap(remap)
	}
}

// remapEqualityCache rewrites cache's keys through remap in place,
// reusing the same map header so every holder of a pointer to it
// (equalityCache itself, or a frame's eqCacheSnap) sees the update.
func remapEqualityCache(cache map[[2]term.Index]clause.Lit, remap term.IndexRemap) {
	remapped := make(map[[2]term.Index]clause.Lit, len(cache))
	for k, lit := range cache {
		nk := [2]term.Index{remap[k[0]], remap[k[1]]}
		if nk[0] > nk[1] {
			nk[0], nk[1] = nk[1], nk[0]
		}
		remapped[nk] = lit
	}
	for k := range cache {
		delete(cache, k)
	}
	for k, lit := range remapped {
		cache[k] = lit
	}
}

// Interrupt requests the running CheckSat to stop (spec.md §4.5
// stop_search). It must never take c.mu, since a signal handler may
// call it while CheckSat already holds the lock.
func (c *Context) Interrupt() { c.core.Interrupt() }

// BuildModel captures a satisfying assignment after CheckSat returns
// sat.StatusSAT, readable back through term occurrences via the
// internal/model package.
func (c *Context) BuildModel() *model.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Build(c.terms, c.in, c.core, c.bv)
}
