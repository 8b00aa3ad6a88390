package clause

// WatchRecord is one entry of a literal's watch vector: either a
// pointer to a clause of length >= 3 in which the literal is watched,
// or an inlined binary-clause partner literal (spec.md §4.4). The two
// shapes are distinguished by the low bit, matching the packed
// encoding spec.md specifies verbatim: "(other_lit << 1) | 1" for
// binary clauses, a clause offset (whose low two bits are zero, since
// offsets are 4-aligned) otherwise.
type WatchRecord uint32

// ClauseWatch wraps a pool offset as a watch record.
func ClauseWatch(off Offset) WatchRecord { return WatchRecord(off) }

// BinaryWatch wraps a binary clause's other literal as an inlined
// watch record.
func BinaryWatch(other Lit) WatchRecord { return WatchRecord(other)<<1 | 1 }

// IsBinary reports whether the record is an inlined binary-clause
// partner rather than a clause offset.
func (w WatchRecord) IsBinary() bool { return w&1 != 0 }

// Offset extracts the clause offset from a non-binary record.
func (w WatchRecord) Offset() Offset { return Offset(w) }

// OtherLit extracts the partner literal from a binary record.
func (w WatchRecord) OtherLit() Lit { return Lit(w >> 1) }

// Watches is the append-only, per-literal watch-vector store: Watches.vec[l]
// lists every clause (or binary partner) for which l is a watched literal.
type Watches struct {
	vec map[Lit][]WatchRecord
}

// NewWatches returns an empty watch-vector store.
func NewWatches() *Watches {
	return &Watches{vec: make(map[Lit][]WatchRecord)}
}

// Add appends record to literal l's watch vector.
func (w *Watches) Add(l Lit, rec WatchRecord) {
	w.vec[l] = append(w.vec[l], rec)
}

// List returns literal l's watch vector. The returned slice aliases the
// store's backing array; callers rebuilding it in place during BCP
// (dropping satisfied/relocated entries) should write through Set.
func (w *Watches) List(l Lit) []WatchRecord { return w.vec[l] }

// Set replaces literal l's watch vector wholesale.
func (w *Watches) Set(l Lit, recs []WatchRecord) { w.vec[l] = recs }

// Remove deletes the first occurrence of rec from l's watch vector (used
// when re-watching a clause at a different literal during BCP).
func (w *Watches) Remove(l Lit, rec WatchRecord) {
	list := w.vec[l]
	for i, r := range list {
		if r == rec {
			w.vec[l] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// AddClause registers the watch invariant for a clause of length >= 3:
// each of its first two literals gets a ClauseWatch record in its own
// vector (BCP on an assigned literal l scans watch[¬l], the vector of
// the literal that has just become false).
func (w *Watches) AddClause(off Offset, l0, l1 Lit) {
	w.Add(l0, ClauseWatch(off))
	w.Add(l1, ClauseWatch(off))
}

// AddBinary registers the inlined watch records for a binary clause
// {l0, l1}: watch[l0] holds l1 and watch[l1] holds l0.
func (w *Watches) AddBinary(l0, l1 Lit) {
	w.Add(l0, BinaryWatch(l1))
	w.Add(l1, BinaryWatch(l0))
}
