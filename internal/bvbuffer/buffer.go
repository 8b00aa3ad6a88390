package bvbuffer

import (
	"math/big"
	"sort"
)

// Monomial is one (coefficient, term) pair in an arbitrary-width
// polynomial (width > 64).
type Monomial struct {
	Coeff *big.Int
	Var   Var
}

// Buffer accumulates monomials for bit-vector widths above 64, where plain
// uint64 coefficients no longer suffice.
//
// This stays on math/big rather than a pack dependency: none of the
// example repos import a big-integer library directly (modernc.org/mathutil
// and modernc.org/sqlite appear only as transitive indirects of the
// "sentra" pack repo's SQLite driver, never imported by application code),
// so there is no grounded third-party home for mod-2ⁿ big-integer
// reduction and math/big already provides exactly the operations needed
// (Add, Mod, Exp with a modulus).
type Buffer struct {
	width   uint32
	modulus *big.Int
	terms   map[Var]*big.Int
}

// NewBuffer returns a buffer normalizing coefficients modulo 2^width for
// width > 64.
func NewBuffer(width uint32) *Buffer {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return &Buffer{
		width:   width,
		modulus: modulus,
		terms:   make(map[Var]*big.Int),
	}
}

// AddMono adds coeff*var to the running sum, reducing modulo 2^width.
func (b *Buffer) AddMono(coeff *big.Int, v Var) {
	cur, ok := b.terms[v]
	if !ok {
		cur = new(big.Int)
	}
	sum := new(big.Int).Add(cur, coeff)
	b.terms[v] = reduceMod(sum, b.modulus)
}

// AddConstant adds a bare constant to the buffer.
func (b *Buffer) AddConstant(c *big.Int) {
	b.AddMono(c, 0)
}

// Normalize returns the canonical, ascending-by-Var monomial list, then
// resets the buffer as a side effect.
func (b *Buffer) Normalize() []Monomial {
	vars := make([]Var, 0, len(b.terms))
	for v, c := range b.terms {
		if c.Sign() != 0 || v == 0 {
			vars = append(vars, v)
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	out := make([]Monomial, 0, len(vars))
	for _, v := range vars {
		out = append(out, Monomial{Coeff: new(big.Int).Set(b.terms[v]), Var: v})
	}
	if len(out) == 0 {
		out = append(out, Monomial{Coeff: big.NewInt(0), Var: 0})
	}

	b.terms = make(map[Var]*big.Int)
	return out
}

// Width reports the bit-width this buffer normalizes for.
func (b *Buffer) Width() uint32 { return b.width }

// reduceMod reduces v into [0, modulus).
func reduceMod(v, modulus *big.Int) *big.Int {
	r := new(big.Int).Mod(v, modulus)
	if r.Sign() < 0 {
		r.Add(r, modulus)
	}
	return r
}

// BigFromUint32Words reconstructs a big.Int from little-endian 32-bit
// words, the wire shape used by BV_CONSTANT for widths above 64
// (spec.md §3).
func BigFromUint32Words(words []uint32) *big.Int {
	v := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		v.Lsh(v, 32)
		v.Or(v, big.NewInt(int64(words[i])))
	}
	return v
}

// ModInverseOdd returns the multiplicative inverse of v modulo 2^width,
// which exists iff v is odd. It is used by the pseudo-inverse
// simplification option (spec.md §4.3 Options) to rewrite an equality
// `(bvmul v x) = k` with v odd into `x = (bvmul v^-1 k)`.
//
// The unit group (Z/2^width Z)* has order 2^(width-1) for width >= 1, so
// v's inverse is v^(2^(width-1) - 1) by Euler's theorem.
func ModInverseOdd(v *big.Int, width uint32) (*big.Int, bool) {
	if v.Bit(0) == 0 {
		return nil, false
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	exponent := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width-1)), big.NewInt(1))
	inv := new(big.Int).Exp(v, exponent, modulus)
	return inv, true
}
