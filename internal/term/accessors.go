package term

import "qfbv/internal/pprod"

// The accessors below expose a term occurrence's operands to callers
// that walk an already-built DAG (the context package's internalization
// pass) without leaking the descriptor union itself. Each returns ok =
// false if occ's kind does not match the accessor's shape.

// Pair returns the two operands of a binary term (EQ, the bit-vector
// binary operators, or the three bit-vector atoms).
func (t *Table) Pair(occ Occ) (left, right Occ, ok bool) {
	d, ok := t.entries[occ.Index()].desc.(pairDesc)
	if !ok {
		return 0, 0, false
	}
	return d.Left, d.Right, true
}

// ITEParts returns the condition and branches of an ITE term.
func (t *Table) ITEParts(occ Occ) (cond, then, els Occ, ok bool) {
	d, ok := t.entries[occ.Index()].desc.(iteDesc)
	if !ok {
		return 0, 0, 0, false
	}
	return d.Cond, d.Then, d.Else, true
}

// List returns the argument list of a DISTINCT, OR, XOR, or BV_ARRAY
// term.
func (t *Table) List(occ Occ) ([]Occ, bool) {
	d, ok := t.entries[occ.Index()].desc.(listDesc)
	if !ok {
		return nil, false
	}
	return d.Args, true
}

// BitSel returns the selected index and source bit-vector of a BIT
// term.
func (t *Table) BitSel(occ Occ) (index uint32, arg Occ, ok bool) {
	d, ok := t.entries[occ.Index()].desc.(bitDesc)
	if !ok {
		return 0, 0, false
	}
	return d.Index, d.Arg, true
}

// BV64ConstValue returns the normalized value of a BV64_CONSTANT term.
func (t *Table) BV64ConstValue(occ Occ) (uint64, bool) {
	d, ok := t.entries[occ.Index()].desc.(bv64ConstDesc)
	if !ok {
		return 0, false
	}
	return d.Value, true
}

// BVConstWords returns the normalized little-endian words of a
// BV_CONSTANT term.
func (t *Table) BVConstWords(occ Occ) ([]uint32, bool) {
	d, ok := t.entries[occ.Index()].desc.(bvConstDesc)
	if !ok {
		return nil, false
	}
	return d.Words, true
}

// PprodOf returns the power-product ID of a POWER_PRODUCT term.
func (t *Table) PprodOf(occ Occ) (pprod.ID, bool) {
	d, ok := t.entries[occ.Index()].desc.(pprodDesc)
	if !ok {
		return 0, false
	}
	return d.ID, true
}

// Poly64Of returns the monomial list of a BV64_POLY term.
func (t *Table) Poly64Of(occ Occ) ([]Mono64, bool) {
	d, ok := t.entries[occ.Index()].desc.(poly64Desc)
	if !ok {
		return nil, false
	}
	return d.Monomials, true
}

// PolyOf returns the monomial list of a BV_POLY term.
func (t *Table) PolyOf(occ Occ) ([]Mono, bool) {
	d, ok := t.entries[occ.Index()].desc.(polyDesc)
	if !ok {
		return nil, false
	}
	return d.Monomials, true
}

// ScalarIndex returns the constant index of a CONSTANT term.
func (t *Table) ScalarIndex(occ Occ) (uint32, bool) {
	d, ok := t.entries[occ.Index()].desc.(scalarDesc)
	if !ok {
		return 0, false
	}
	return d.Index, true
}
