package term

import "qfbv/internal/pprod"

// Mark marks occ's underlying term (and everything it structurally
// depends on) reachable, recursing through descriptors exactly as
// spec.md §4.1's mark-and-sweep GC describes. Power products referenced
// by POWER_PRODUCT terms are marked in the shared pprod.Table so that
// Sweep can reclaim unused products in the same pass.
func (t *Table) Mark(occ Occ) {
	t.mark(occ.Index())
}

func (t *Table) mark(idx Index) {
	if idx == ReservedIndex {
		return
	}
	e := &t.entries[idx]
	if e.mark {
		return
	}
	e.mark = true
	t.types.mark(e.typ)

	switch d := e.desc.(type) {
	case iteDesc:
		t.mark(d.Cond.Index())
		t.mark(d.Then.Index())
		t.mark(d.Else.Index())
	case pairDesc:
		t.mark(d.Left.Index())
		t.mark(d.Right.Index())
	case listDesc:
		for _, a := range d.Args {
			t.mark(a.Index())
		}
	case bitDesc:
		t.mark(d.Arg.Index())
	case pprodDesc:
		t.pprods.Mark(d.ID)
	case poly64Desc:
		for _, m := range d.Monomials {
			if m.Var != 0 {
				t.mark(m.Var.Index())
			}
		}
	case polyDesc:
		for _, m := range d.Monomials {
			if m.Var != 0 {
				t.mark(m.Var.Index())
			}
		}
	}
}

// IndexRemap maps a pre-sweep term index to its post-sweep index; zero
// means the term was collected.
type IndexRemap map[Index]Index

// Sweep reclaims every term whose index was not marked since the last
// sweep (or since NewTable), compacting the live set and returning the
// old->new index remapping so callers (the symbol table, the
// internalization map) can fix up their own references. TrueIndex is
// always kept regardless of mark state.
//
// Sweep also cascades into the type subtable and the power-product
// table, since both are only ever referenced from live terms.
func (t *Table) Sweep() IndexRemap {
	remap := make(IndexRemap, len(t.entries))
	newEntries := make([]termEntry, 2, len(t.entries))
	remap[ReservedIndex] = ReservedIndex
	remap[TrueIndex] = TrueIndex
	newEntries[TrueIndex] = t.entries[TrueIndex]
	newEntries[TrueIndex].mark = false

	for i := Index(2); int(i) < len(t.entries); i++ {
		e := t.entries[i]
		if !e.mark {
			continue
		}
		e.mark = false
		newEntries = append(newEntries, e)
		remap[i] = Index(len(newEntries) - 1)
	}

	remapOccs(newEntries, remap)

	t.entries = newEntries
	t.free = nil
	t.hcons = rebuildHashCons(newEntries, remap)

	typeRemap := t.types.sweep()
	remapTypes(t.entries, typeRemap)
	pprodRemap := t.pprods.Sweep()
	remapPprods(t.entries, pprodRemap)

	return remap
}

// remapOccs rewrites every Occ-valued descriptor field in entries
// through remap, the same way remapTypes/remapPprods fix up typ and
// pprodDesc.ID. Without this, a surviving composite term's child
// references would still point at its pre-sweep index once the array
// is compacted.
func remapOccs(entries []termEntry, remap IndexRemap) {
	for i := range entries {
		switch d := entries[i].desc.(type) {
		case pairDesc:
			entries[i].desc = pairDesc{Left: remapOcc(d.Left, remap), Right: remapOcc(d.Right, remap)}
		case iteDesc:
			entries[i].desc = iteDesc{
				Cond: remapOcc(d.Cond, remap),
				Then: remapOcc(d.Then, remap),
				Else: remapOcc(d.Else, remap),
			}
		case listDesc:
			args := make([]Occ, len(d.Args))
			for j, a := range d.Args {
				args[j] = remapOcc(a, remap)
			}
			entries[i].desc = listDesc{Args: args}
		case bitDesc:
			entries[i].desc = bitDesc{Index: d.Index, Arg: remapOcc(d.Arg, remap)}
		case poly64Desc:
			monos := make([]Mono64, len(d.Monomials))
			for j, m := range d.Monomials {
				monos[j] = Mono64{Coeff: m.Coeff, Var: remapOcc(m.Var, remap)}
			}
			entries[i].desc = poly64Desc{Monomials: monos}
		case polyDesc:
			monos := make([]Mono, len(d.Monomials))
			for j, m := range d.Monomials {
				monos[j] = Mono{Coeff: m.Coeff, Var: remapOcc(m.Var, remap)}
			}
			entries[i].desc = polyDesc{Monomials: monos}
		}
	}
}

// remapOcc rewrites a single Occ's index through remap while preserving
// its polarity bit. A zero Occ (the constant-term position in
// poly64Desc/polyDesc) maps to itself since remap[ReservedIndex] is
// always ReservedIndex.
func remapOcc(o Occ, remap IndexRemap) Occ {
	return MkOcc(remap[o.Index()], o.IsNegated())
}

func rebuildHashCons(entries []termEntry, remap IndexRemap) map[string]Index {
	h := make(map[string]Index, len(entries))
	for i, e := range entries {
		if i == int(ReservedIndex) || e.kind == KindUninterpreted {
			continue
		}
		h[hashKey(e.kind, e.typ, e.desc)] = Index(i)
	}
	return h
}

func remapTypes(entries []termEntry, typeRemap map[TypeID]TypeID) {
	for i := range entries {
		if nt, ok := typeRemap[entries[i].typ]; ok {
			entries[i].typ = nt
		}
	}
}

func remapPprods(entries []termEntry, pprodRemap map[pprod.ID]pprod.ID) {
	for i := range entries {
		if d, ok := entries[i].desc.(pprodDesc); ok {
			if nid, ok := pprodRemap[d.ID]; ok {
				entries[i].desc = pprodDesc{ID: nid}
			}
		}
	}
}
