// Package bvbuffer implements the normalizing bit-vector polynomial
// buffers of spec.md §3 ("Bit-vector polynomial"): an accumulator that
// collects (coefficient, term) monomials plus a distinguished constant
// term, normalizes coefficients modulo 2ⁿ, and orders monomials by term
// index before the term table hash-conses the result into a BV64_POLY or
// BV_POLY term. There are two variants: Buffer64 for widths ≤ 64 (plain
// uint64 arithmetic) and Buffer for arbitrary widths (math/big's big.Int
// arithmetic, including the mod-2ⁿ reduction).
package bvbuffer

import (
	"sort"
)

// Var identifies the term whose occurrence a monomial multiplies; 0 is
// reserved for the constant-term position, matching spec.md's "a
// distinguished constant-term position".
type Var uint32

// Monomial64 is one (coefficient, term) pair in a ≤64-bit polynomial.
type Monomial64 struct {
	Coeff uint64
	Var   Var // 0 for the constant term
}

// Buffer64 accumulates monomials for bit-vector widths 1..64.
type Buffer64 struct {
	width uint32
	mask  uint64
	terms map[Var]uint64
}

// NewBuffer64 returns a buffer normalizing coefficients modulo 2^width.
func NewBuffer64(width uint32) *Buffer64 {
	return &Buffer64{
		width: width,
		mask:  maskFor(width),
		terms: make(map[Var]uint64),
	}
}

func maskFor(width uint32) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// AddMono adds coeff*var to the running sum (var == 0 adds to the constant
// term), reducing modulo 2^width.
func (b *Buffer64) AddMono(coeff uint64, v Var) {
	b.terms[v] = (b.terms[v] + coeff) & b.mask
}

// AddConstant adds a bare constant to the buffer.
func (b *Buffer64) AddConstant(c uint64) {
	b.AddMono(c, 0)
}

// Normalize returns the canonical, ascending-by-Var monomial list with
// zero-coefficient entries dropped (except a lone constant-term zero,
// which is kept so "0" has a representation), then resets the buffer --
// the buffer is consumed as a side effect, per spec.md §4.1's
// bv_poly/bv64_poly contract.
func (b *Buffer64) Normalize() []Monomial64 {
	vars := make([]Var, 0, len(b.terms))
	for v, c := range b.terms {
		if c != 0 || v == 0 {
			vars = append(vars, v)
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	out := make([]Monomial64, 0, len(vars))
	for _, v := range vars {
		out = append(out, Monomial64{Coeff: b.terms[v], Var: v})
	}
	if len(out) == 0 {
		out = append(out, Monomial64{Coeff: 0, Var: 0})
	}

	b.terms = make(map[Var]uint64)
	return out
}

// Width reports the bit-width this buffer normalizes for.
func (b *Buffer64) Width() uint32 { return b.width }
