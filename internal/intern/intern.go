// Package intern implements the internalization map of spec.md §5: a
// union-find structure over term indices that tracks, for each
// equivalence class root, whether it is still unintern'd, already
// mapped to a SAT literal, or already mapped to a bit-vector solver
// (theory) variable -- plus the substitution-candidate bookkeeping and
// cycle detection the context pipeline's flattening pass needs before
// committing a substitution.
//
// Grounded on the teacher's union-find-shaped symbol resolution in
// internal/semantic (parent-chain lookup generalized here to true
// union-find with path compression), and on original_source/context.h's
// equivalent state machine (pending -> literal | theory var).
package intern

import "qfbv/internal/term"

// State tags what a union-find root currently resolves to.
type State uint8

const (
	// Unresolved roots have not yet been internalized.
	Unresolved State = iota
	// Literal roots are mapped to a Boolean SAT literal.
	Literal
	// TheoryVar roots are mapped to a bit-vector solver variable.
	TheoryVar
)

// Lit is a signed SAT literal: 2*var or 2*var+1 for its negation,
// matching the clause/sat packages' packed representation.
type Lit int32

// TheoryVar identifies a variable inside the bit-vector solver.
type TheoryVar int32

type node struct {
	parent term.Index
	rank   uint8

	state State
	lit   Lit
	tvar  TheoryVar

	// color supports the tri-color cycle detection the context
	// pipeline's substitution pass runs before committing a candidate
	// substitution map (spec.md §5 step 4): white = unvisited,
	// grey = on the current DFS path, black = fully resolved with no
	// cycle found through it.
	color uint8
}

const (
	white uint8 = iota
	grey
	black
)

// Table is the union-find internalization map, one node per term index
// the context has ever seen.
type Table struct {
	nodes map[term.Index]*node
}

// New returns an empty internalization map.
func New() *Table {
	return &Table{nodes: make(map[term.Index]*node)}
}

// Snapshot is an opaque copy of a Table's state at a point in time,
// restorable via RestoreTo. Context.Push/Pop use this to checkpoint
// and rewind internalization bookkeeping across a push/pop frame
// (spec.md §4.3), independent of the SAT core's own guard-literal
// scoping of the clauses a frame's assertions produced.
type Snapshot struct {
	nodes map[term.Index]*node
}

// Snapshot captures t's current state. The returned value shares no
// node pointers with t, so later mutation of either is invisible to
// the other.
func (t *Table) Snapshot() Snapshot {
	return Snapshot{nodes: cloneNodes(t.nodes)}
}

// RestoreTo rewinds t to a previously captured Snapshot.
func (t *Table) RestoreTo(s Snapshot) {
	t.nodes = cloneNodes(s.nodes)
}

// Remap rewrites every node's key and parent pointer through remap
// after a term.Table sweep (Context.GC). A node whose index was
// collected (absent from remap) is dropped along with its bookkeeping,
// since the term it internalized no longer exists.
func (t *Table) Remap(remap term.IndexRemap) {
	newNodes := make(map[term.Index]*node, len(t.nodes))
	for idx, n := range t.nodes {
		newIdx, ok := remap[idx]
		if !ok {
			continue
		}
		if newParent, ok := remap[n.parent]; ok {
			n.parent = newParent
		}
		newNodes[newIdx] = n
	}
	t.nodes = newNodes
}

func cloneNodes(nodes map[term.Index]*node) map[term.Index]*node {
	clone := make(map[term.Index]*node, len(nodes))
	for idx, n := range nodes {
		cp := *n
		clone[idx] = &cp
	}
	return clone
}

// Indices returns every term index this table holds a node for,
// including union-find non-root members, so a caller running a
// term.Table GC pass can mark them all reachable first: a node's
// parent pointer may target an index with no other structural
// reference to it, since Union links classes by representative choice
// rather than by term structure.
func (t *Table) Indices() []term.Index {
	return indicesOf(t.nodes)
}

// Indices returns every term index held by a captured Snapshot, so
// Context.GC can also keep alive whatever a still-open push/pop
// frame's pre-frame state refers to, not just the live table's state.
func (s Snapshot) Indices() []term.Index {
	return indicesOf(s.nodes)
}

// Remap rewrites every node's key and parent pointer in a captured
// Snapshot through remap after a term.Table sweep, the Snapshot
// counterpart to Table.Remap -- a still-open push/pop frame's
// pre-frame state must be kept in step with the sweep too, or
// restoring it on Pop would resolve to the wrong post-sweep indices.
func (s Snapshot) Remap(remap term.IndexRemap) Snapshot {
	newNodes := make(map[term.Index]*node, len(s.nodes))
	for idx, n := range s.nodes {
		newIdx, ok := remap[idx]
		if !ok {
			continue
		}
		cp := *n
		if newParent, ok := remap[cp.parent]; ok {
			cp.parent = newParent
		}
		newNodes[newIdx] = &cp
	}
	return Snapshot{nodes: newNodes}
}

func indicesOf(nodes map[term.Index]*node) []term.Index {
	out := make([]term.Index, 0, len(nodes))
	for idx := range nodes {
		out = append(out, idx)
	}
	return out
}

func (t *Table) get(idx term.Index) *node {
	n, ok := t.nodes[idx]
	if !ok {
		n = &node{parent: idx, state: Unresolved}
		t.nodes[idx] = n
	}
	return n
}

// Find returns the representative index of idx's equivalence class,
// compressing the path as it walks up.
func (t *Table) Find(idx term.Index) term.Index {
	n := t.get(idx)
	if n.parent == idx {
		return idx
	}
	root := t.Find(n.parent)
	n.parent = root
	return root
}

// Union merges the equivalence classes of a and b. If one side is
// already resolved (Literal or TheoryVar) and the other is not, the
// resolved side's root survives regardless of rank, since its state
// carries information the merge must not discard. Otherwise (both
// unresolved or both resolved) the roots are joined by rank, with a's
// root winning ties. It is an error-free operation: callers that need to
// reject merging two differently-resolved roots must check State
// themselves before calling Union (spec.md §5 step 3 runs this check
// while building candidate substitutions, not inside the union-find).
func (t *Table) Union(a, b term.Index) term.Index {
	ra, rb := t.Find(a), t.Find(b)
	if ra == rb {
		return ra
	}
	na, nb := t.get(ra), t.get(rb)

	if na.state != Unresolved && nb.state == Unresolved {
		nb.parent = ra
		return ra
	}
	if nb.state != Unresolved && na.state == Unresolved {
		na.parent = rb
		return rb
	}
	// Either both resolved (caller's responsibility to have checked
	// compatibility) or both unresolved: union by rank.
	if na.rank < nb.rank {
		na.parent = rb
		return rb
	}
	if na.rank > nb.rank {
		nb.parent = ra
		return ra
	}
	nb.parent = ra
	na.rank++
	return ra
}

// Substitute commits a candidate substitution x -> target: unlike
// Union, it does not merge by rank when both sides are unresolved --
// target always survives as the representative, so a later Find(x)
// walks through to target's own term structure instead of x's. When
// one side is already resolved (Literal or TheoryVar), that side
// survives regardless, exactly as Union does, since its state carries
// information the merge must not discard.
func (t *Table) Substitute(x, target term.Index) term.Index {
	rx, rt := t.Find(x), t.Find(target)
	if rx == rt {
		return rx
	}
	nx, nt := t.get(rx), t.get(rt)

	if nx.state != Unresolved && nt.state == Unresolved {
		nt.parent = rx
		return rx
	}
	if nt.state != Unresolved && nx.state == Unresolved {
		nx.parent = rt
		return rt
	}
	nx.parent = rt
	return rt
}

// State returns the resolution state of idx's class.
func (t *Table) State(idx term.Index) State {
	return t.get(t.Find(idx)).state
}

// SetLiteral resolves idx's class to a SAT literal. It overwrites any
// earlier resolution of the class (Literal or TheoryVar) without
// reporting an error.
func (t *Table) SetLiteral(idx term.Index, lit Lit) {
	n := t.get(t.Find(idx))
	n.state = Literal
	n.lit = lit
}

// SetTheoryVar resolves idx's class to a bit-vector solver variable.
func (t *Table) SetTheoryVar(idx term.Index, v TheoryVar) {
	n := t.get(t.Find(idx))
	n.state = TheoryVar
	n.tvar = v
}

// LiteralOf returns the SAT literal bound to idx's class.
func (t *Table) LiteralOf(idx term.Index) (Lit, bool) {
	n := t.get(t.Find(idx))
	if n.state != Literal {
		return 0, false
	}
	return n.lit, true
}

// TheoryVarOf returns the theory variable bound to idx's class.
func (t *Table) TheoryVarOf(idx term.Index) (TheoryVar, bool) {
	n := t.get(t.Find(idx))
	if n.state != TheoryVar {
		return 0, false
	}
	return n.tvar, true
}

// resetColors clears the DFS coloring of every node touched since the
// last HasCycle call.
func (t *Table) resetColors() {
	for _, n := range t.nodes {
		n.color = white
	}
}

// HasCycle reports whether following candidate substitutions from root
// through edges(idx) reaches idx again, using a tri-color DFS (spec.md
// §5 step 4's cycle-breaking pass: a cyclic candidate substitution set
// must be broken before it is committed to the union-find). edges
// returns the substitution targets of a term index, supplied by the
// context pipeline since only it knows the candidate map being
// validated.
func (t *Table) HasCycle(root term.Index, edges func(term.Index) []term.Index) bool {
	t.resetColors()
	var visit func(term.Index) bool
	visit = func(idx term.Index) bool {
		n := t.get(idx)
		switch n.color {
		case grey:
			return true
		case black:
			return false
		}
		n.color = grey
		for _, next := range edges(idx) {
			if visit(next) {
				return true
			}
		}
		n.color = black
		return false
	}
	return visit(root)
}
