package term

import "qfbv/internal/pprod"

// descriptor is the sum-typed payload named in spec.md §9 ("Sum-typed
// descriptors"): the kind tag plus a compact descriptor union. Go lacks
// tagged unions, so this is expressed the idiomatic way -- an interface
// implemented by one concrete struct per payload shape. Code that reads a
// payload dispatches with a type switch on the concrete descriptor type;
// the term's Kind field carries the tag alongside it.
type descriptor interface {
	isDescriptor()
}

// scalarDesc backs CONSTANT: a scalar/uninterpreted constant of a given
// type, identified by an integer index (spec.md §4.1 constant_term).
type scalarDesc struct {
	Index uint32
}

// freshDesc backs UNINTERPRETED: carries no structural payload since the
// term is never hash-consed (spec.md: "always fresh").
type freshDesc struct {
	Tag uint32 // allocation-order tag, for printing only
}

// bv64ConstDesc backs BV64_CONSTANT: a normalized value for widths <= 64.
type bv64ConstDesc struct {
	Value uint64
}

// bvConstDesc backs BV_CONSTANT: a normalized value for widths > 64,
// stored as little-endian 32-bit words.
type bvConstDesc struct {
	Words []uint32
}

// pairDesc backs EQ and the three bit-vector atoms (BV_EQ_ATOM, BV_GE_ATOM,
// BV_SGE_ATOM) and the binary bit-vector operators (BV_DIV, BV_SHL, ...).
type pairDesc struct {
	Left, Right Occ
}

// iteDesc backs ITE.
type iteDesc struct {
	Cond, Then, Else Occ
}

// listDesc backs DISTINCT, OR, XOR, and BV_ARRAY (the argument list is the
// array of composed bits).
type listDesc struct {
	Args []Occ
}

// bitDesc backs BIT: select bit Index of bit-vector Arg.
type bitDesc struct {
	Index uint32
	Arg   Occ
}

// pprodDesc backs POWER_PRODUCT.
type pprodDesc struct {
	ID pprod.ID
}

// poly64Desc backs BV64_POLY: an ordered sequence of (coefficient, term)
// monomials for widths <= 64, canonically ordered by term index, with the
// constant-term position distinguished by Var == 0.
type poly64Desc struct {
	Monomials []Mono64
}

// Mono64 is one monomial of a BV64_POLY term.
type Mono64 struct {
	Coeff uint64
	Var   Occ // zero Occ denotes the constant-term position
}

// polyDesc backs BV_POLY: the arbitrary-width analogue of poly64Desc.
type polyDesc struct {
	Monomials []Mono
}

// Mono is one monomial of a BV_POLY term.
type Mono struct {
	Coeff []uint32 // little-endian words
	Var   Occ
}

func (scalarDesc) isDescriptor()    {}
func (freshDesc) isDescriptor()     {}
func (bv64ConstDesc) isDescriptor() {}
func (bvConstDesc) isDescriptor()   {}
func (pairDesc) isDescriptor()      {}
func (iteDesc) isDescriptor()       {}
func (listDesc) isDescriptor()      {}
func (bitDesc) isDescriptor()       {}
func (pprodDesc) isDescriptor()     {}
func (poly64Desc) isDescriptor()    {}
func (polyDesc) isDescriptor()      {}
