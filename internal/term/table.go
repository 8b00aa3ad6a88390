package term

import (
	"encoding/binary"

	qerrors "qfbv/internal/errors"
	"qfbv/internal/pprod"
)

type termEntry struct {
	kind Kind
	typ  TypeID
	desc descriptor
	mark bool
}

// Table is the hash-consed term DAG plus its Type and power-product
// subtables (spec.md §3-§4.1). Index 0 is reserved; index 1 is the
// predefined Boolean constant `true`.
type Table struct {
	entries []termEntry
	types   *typeTable
	pprods  *pprod.Table

	hcons map[string]Index // structural hash-consing, hash-consed kinds only
	free  []Index          // indices alloc may reuse; Sweep compacts instead and leaves it empty

	freshCounter uint32 // allocation-order tag for UNINTERPRETED terms
}

// NewTable returns a term table preloaded with the reserved slot and the
// Boolean constant `true` at index 1 (spec.md §3).
func NewTable() *Table {
	t := &Table{
		entries: make([]termEntry, 2),
		types:   newTypeTable(),
		pprods:  pprod.NewTable(),
		hcons:   make(map[string]Index),
	}
	t.entries[TrueIndex] = termEntry{kind: KindConstant, typ: BoolTypeID, desc: scalarDesc{Index: 1}}
	return t
}

// BoolType returns the predefined Boolean type.
func (t *Table) BoolType() TypeID { return BoolTypeID }

// BitVecType hash-conses and returns the type BitVec(width).
func (t *Table) BitVecType(width uint32) (TypeID, error) {
	return t.types.bitVec(width)
}

// IsBoolean reports whether occ's underlying term has Boolean type.
func (t *Table) IsBoolean(occ Occ) bool {
	return t.types.isBool(t.entries[occ.Index()].typ)
}

// Width returns the bit-vector width of occ's type; it returns 0 if occ
// is Boolean.
func (t *Table) Width(occ Occ) uint32 {
	return t.types.width(t.entries[occ.Index()].typ)
}

// TypeOf returns the TypeID of occ's underlying term.
func (t *Table) TypeOf(occ Occ) TypeID {
	return t.entries[occ.Index()].typ
}

// KindOf returns the Kind of occ's underlying term.
func (t *Table) KindOf(occ Occ) Kind {
	return t.entries[occ.Index()].kind
}

// Pprods exposes the shared power-product table so callers that walk
// POWER_PRODUCT terms (the context package's internalization pass) can
// resolve a product's factors.
func (t *Table) Pprods() *pprod.Table { return t.pprods }

// True returns the `true` occurrence.
func (t *Table) True() Occ { return TrueOcc }

// False returns the `false` occurrence.
func (t *Table) False() Occ { return FalseOcc }

// Not flips the polarity of a Boolean occurrence. Returns TypeError if occ
// is not Boolean.
func (t *Table) Not(occ Occ) (Occ, error) {
	if !t.IsBoolean(occ) {
		return 0, qerrors.New(qerrors.TypeError, "not: argument is not Boolean")
	}
	return occ.Not(), nil
}

func (t *Table) alloc(kind Kind, typ TypeID, desc descriptor) Index {
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[idx] = termEntry{kind: kind, typ: typ, desc: desc}
		return idx
	}
	idx := Index(len(t.entries))
	t.entries = append(t.entries, termEntry{kind: kind, typ: typ, desc: desc})
	return idx
}

// hashCons returns the existing occurrence for (kind, typ, desc) if one
// was already constructed, or allocates and registers a fresh one.
// Non-Boolean kinds always return the positive occurrence (spec.md §3
// Invariants).
func (t *Table) hashCons(kind Kind, typ TypeID, desc descriptor) Occ {
	key := hashKey(kind, typ, desc)
	if idx, ok := t.hcons[key]; ok {
		return MkOcc(idx, false)
	}
	idx := t.alloc(kind, typ, desc)
	t.hcons[key] = idx
	return MkOcc(idx, false)
}

// ConstantTerm returns the hash-consed occurrence of the idx-th constant
// of the given (scalar or uninterpreted) type.
func (t *Table) ConstantTerm(typ TypeID, idx uint32) Occ {
	return t.hashCons(KindConstant, typ, scalarDesc{Index: idx})
}

// NewUninterpreted allocates a fresh term of the given type; it is never
// hash-consed, matching spec.md §4.1.
func (t *Table) NewUninterpreted(typ TypeID) Occ {
	t.freshCounter++
	idx := t.alloc(KindUninterpreted, typ, freshDesc{Tag: t.freshCounter})
	return MkOcc(idx, false)
}

// Ite hash-conses `(ite cond a b)`. cond must be Boolean; a and b must
// have the requested result type ty.
func (t *Table) Ite(ty TypeID, cond, a, b Occ) (Occ, error) {
	if !t.IsBoolean(cond) {
		return 0, qerrors.New(qerrors.TypeError, "ite: condition is not Boolean")
	}
	if t.TypeOf(a) != ty || t.TypeOf(b) != ty {
		return 0, qerrors.New(qerrors.TypeError, "ite: branch type mismatch")
	}
	return t.hashCons(KindITE, ty, iteDesc{Cond: cond, Then: a, Else: b}), nil
}

// Eq hash-conses `(= a b)`. a and b must have the same type.
func (t *Table) Eq(a, b Occ) (Occ, error) {
	if t.TypeOf(a) != t.TypeOf(b) {
		return 0, qerrors.New(qerrors.TypeError, "eq: operand type mismatch")
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return t.hashCons(KindEq, BoolTypeID, pairDesc{Left: lo, Right: hi}), nil
}

// Distinct hash-conses `(distinct args...)`. All args must share a type;
// arity must be >= 2.
//
// Per spec.md §9's open question, this module preserves the observed
// upstream behavior of classifying `distinct` as a generic literal even
// when every argument is a bit-vector term, rather than special-casing it
// into the bit-vector theory.
func (t *Table) Distinct(args []Occ) (Occ, error) {
	if len(args) < 2 {
		return 0, qerrors.New(qerrors.ErrArityMismatch, "distinct: requires at least 2 arguments")
	}
	ty := t.TypeOf(args[0])
	for _, a := range args[1:] {
		if t.TypeOf(a) != ty {
			return 0, qerrors.New(qerrors.TypeError, "distinct: operand type mismatch")
		}
	}
	return t.hashCons(KindDistinct, BoolTypeID, listDesc{Args: append([]Occ(nil), args...)}), nil
}

// Or hash-conses a flat n-ary `(or args...)`. All args must be Boolean.
func (t *Table) Or(args []Occ) (Occ, error) {
	if len(args) == 0 {
		return t.False(), nil
	}
	for _, a := range args {
		if !t.IsBoolean(a) {
			return 0, qerrors.New(qerrors.TypeError, "or: non-Boolean argument")
		}
	}
	return t.hashCons(KindOr, BoolTypeID, listDesc{Args: append([]Occ(nil), args...)}), nil
}

// Xor hash-conses `(xor args...)`. All args must be Boolean.
func (t *Table) Xor(args []Occ) (Occ, error) {
	if len(args) == 0 {
		return 0, qerrors.New(qerrors.ErrArityMismatch, "xor: requires at least 1 argument")
	}
	for _, a := range args {
		if !t.IsBoolean(a) {
			return 0, qerrors.New(qerrors.TypeError, "xor: non-Boolean argument")
		}
	}
	return t.hashCons(KindXor, BoolTypeID, listDesc{Args: append([]Occ(nil), args...)}), nil
}

// Bit hash-conses `(bit index bv)`, selecting bit `index` (0 = low order)
// of bit-vector occurrence bv.
func (t *Table) Bit(index uint32, bv Occ) (Occ, error) {
	if t.IsBoolean(bv) {
		return 0, qerrors.New(qerrors.TypeError, "bit: argument is not a bit-vector")
	}
	if index >= t.Width(bv) {
		return 0, qerrors.Newf(qerrors.ErrIndexOutOfRange, "bit: index %d out of range for width %d", index, t.Width(bv))
	}
	return t.hashCons(KindBit, BoolTypeID, bitDesc{Index: index, Arg: bv}), nil
}

// BVArray hash-conses `(bvarray b0 ... b_{n-1})`, composing n Boolean
// occurrences into a bit-vector of width n, low bit first.
func (t *Table) BVArray(bits []Occ) (Occ, error) {
	if len(bits) == 0 || uint64(len(bits)) > MaxBitWidth {
		return 0, qerrors.Newf(qerrors.ErrArityMismatch, "bvarray: argument count %d out of range", len(bits))
	}
	for _, b := range bits {
		if !t.IsBoolean(b) {
			return 0, qerrors.New(qerrors.TypeError, "bvarray: non-Boolean argument")
		}
	}
	ty, err := t.BitVecType(uint32(len(bits)))
	if err != nil {
		return 0, err
	}
	return t.hashCons(KindBVArray, ty, listDesc{Args: append([]Occ(nil), bits...)}), nil
}

func (t *Table) bvBinary(kind Kind, left, right Occ) (Occ, error) {
	if t.IsBoolean(left) || t.IsBoolean(right) {
		return 0, qerrors.New(qerrors.TypeError, "bit-vector operator applied to a Boolean term")
	}
	if t.TypeOf(left) != t.TypeOf(right) {
		return 0, qerrors.New(qerrors.TypeError, "bit-vector operator: width mismatch")
	}
	return t.hashCons(kind, t.TypeOf(left), pairDesc{Left: left, Right: right}), nil
}

func (t *Table) BVDiv(l, r Occ) (Occ, error)  { return t.bvBinary(KindBVDiv, l, r) }
func (t *Table) BVRem(l, r Occ) (Occ, error)  { return t.bvBinary(KindBVRem, l, r) }
func (t *Table) BVSDiv(l, r Occ) (Occ, error) { return t.bvBinary(KindBVSDiv, l, r) }
func (t *Table) BVSRem(l, r Occ) (Occ, error) { return t.bvBinary(KindBVSRem, l, r) }
func (t *Table) BVSMod(l, r Occ) (Occ, error) { return t.bvBinary(KindBVSMod, l, r) }
func (t *Table) BVShl(l, r Occ) (Occ, error)  { return t.bvBinary(KindBVShl, l, r) }
func (t *Table) BVLshr(l, r Occ) (Occ, error) { return t.bvBinary(KindBVLshr, l, r) }
func (t *Table) BVAshr(l, r Occ) (Occ, error) { return t.bvBinary(KindBVAshr, l, r) }

func (t *Table) bvAtom(kind Kind, left, right Occ) (Occ, error) {
	if t.IsBoolean(left) || t.IsBoolean(right) {
		return 0, qerrors.New(qerrors.TypeError, "bit-vector atom applied to a Boolean term")
	}
	if t.TypeOf(left) != t.TypeOf(right) {
		return 0, qerrors.New(qerrors.TypeError, "bit-vector atom: width mismatch")
	}
	return t.hashCons(kind, BoolTypeID, pairDesc{Left: left, Right: right}), nil
}

// BVEqAtom hash-conses `(bveq l r)`.
func (t *Table) BVEqAtom(l, r Occ) (Occ, error) { return t.bvAtom(KindBVEqAtom, l, r) }

// BVGeAtom hash-conses `(bvge l r)`, unsigned l >= r.
func (t *Table) BVGeAtom(l, r Occ) (Occ, error) { return t.bvAtom(KindBVGeAtom, l, r) }

// BVSgeAtom hash-conses `(bvsge l r)`, signed l >= r.
func (t *Table) BVSgeAtom(l, r Occ) (Occ, error) { return t.bvAtom(KindBVSgeAtom, l, r) }

// BV64Constant hash-conses a normalized ≤64-bit constant.
func (t *Table) BV64Constant(width uint32, value uint64) (Occ, error) {
	if width == 0 || width > 64 {
		return 0, qerrors.Newf(qerrors.ErrBadBitwidth, "bv64_constant: width %d out of range [1,64]", width)
	}
	ty, err := t.BitVecType(width)
	if err != nil {
		return 0, err
	}
	value = normalizeUint64(value, width)
	return t.hashCons(KindBV64Constant, ty, bv64ConstDesc{Value: value}), nil
}

// BVConstant hash-conses a normalized arbitrary-width constant given as
// little-endian 32-bit words.
func (t *Table) BVConstant(width uint32, words []uint32) (Occ, error) {
	if width <= 64 {
		return 0, qerrors.New(qerrors.ErrBadBitwidth, "bv_constant: use BV64Constant for widths <= 64")
	}
	if width > MaxBitWidth {
		return 0, qerrors.Newf(qerrors.ErrBadBitwidth, "bv_constant: width %d exceeds limit", width)
	}
	ty, err := t.BitVecType(width)
	if err != nil {
		return 0, err
	}
	norm := normalizeWords(words, width)
	return t.hashCons(KindBVConstant, ty, bvConstDesc{Words: norm}), nil
}

// PprodTerm hash-conses a term wrapping the power product id. Per
// spec.md §4.1, this is never applicable to the empty product, nor to a
// tagged single-variable form -- pprod.Table.Product already rejects both
// shapes, so any id reaching here is already a valid multi-factor or
// higher-exponent product.
func (t *Table) PprodTerm(width uint32, id pprod.ID) (Occ, error) {
	ty, err := t.BitVecType(width)
	if err != nil {
		return 0, err
	}
	return t.hashCons(KindPowerProduct, ty, pprodDesc{ID: id}), nil
}

// BV64Poly hash-conses a BV64_POLY term from an already-normalized
// monomial list (the caller obtains this from bvbuffer.Buffer64.Normalize,
// which resets the buffer as a side effect per spec.md §4.1).
func (t *Table) BV64Poly(width uint32, monomials []Mono64) (Occ, error) {
	ty, err := t.BitVecType(width)
	if err != nil {
		return 0, err
	}
	return t.hashCons(KindBV64Poly, ty, poly64Desc{Monomials: append([]Mono64(nil), monomials...)}), nil
}

// BVPoly hash-conses a BV_POLY term from an already-normalized monomial
// list (arbitrary width).
func (t *Table) BVPoly(width uint32, monomials []Mono) (Occ, error) {
	ty, err := t.BitVecType(width)
	if err != nil {
		return 0, err
	}
	return t.hashCons(KindBVPoly, ty, polyDesc{Monomials: append([]Mono(nil), monomials...)}), nil
}

func normalizeUint64(v uint64, width uint32) uint64 {
	if width >= 64 {
		return v
	}
	return v & ((uint64(1) << width) - 1)
}

func normalizeWords(words []uint32, width uint32) []uint32 {
	nwords := (int(width) + 31) / 32
	out := make([]uint32, nwords)
	copy(out, words)
	if rem := width % 32; rem != 0 {
		out[nwords-1] &= (1 << rem) - 1
	}
	return out
}

// hashKey builds a structural hash-consing key from a term's kind, type,
// and descriptor.
func hashKey(kind Kind, typ TypeID, desc descriptor) string {
	buf := make([]byte, 0, 32)
	buf = appendU32(buf, uint32(kind))
	buf = appendU32(buf, uint32(typ))

	switch d := desc.(type) {
	case scalarDesc:
		buf = appendU32(buf, d.Index)
	case freshDesc:
		buf = appendU32(buf, d.Tag) // never looked up: always a fresh alloc
	case bv64ConstDesc:
		buf = appendU64(buf, d.Value)
	case bvConstDesc:
		for _, w := range d.Words {
			buf = appendU32(buf, w)
		}
	case pairDesc:
		buf = appendU32(buf, uint32(d.Left))
		buf = appendU32(buf, uint32(d.Right))
	case iteDesc:
		buf = appendU32(buf, uint32(d.Cond))
		buf = appendU32(buf, uint32(d.Then))
		buf = appendU32(buf, uint32(d.Else))
	case listDesc:
		for _, a := range d.Args {
			buf = appendU32(buf, uint32(a))
		}
	case bitDesc:
		buf = appendU32(buf, d.Index)
		buf = appendU32(buf, uint32(d.Arg))
	case pprodDesc:
		buf = appendU32(buf, uint32(d.ID))
	case poly64Desc:
		for _, m := range d.Monomials {
			buf = appendU64(buf, m.Coeff)
			buf = appendU32(buf, uint32(m.Var))
		}
	case polyDesc:
		for _, m := range d.Monomials {
			buf = appendU32(buf, uint32(len(m.Coeff)))
			for _, w := range m.Coeff {
				buf = appendU32(buf, w)
			}
			buf = appendU32(buf, uint32(m.Var))
		}
	}
	return string(buf)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
