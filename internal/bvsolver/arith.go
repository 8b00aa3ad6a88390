package bvsolver

import "qfbv/internal/clause"

// fullAdder returns (sum, carryOut) for a ripple-carry adder bit,
// the standard two-gate decomposition sum = a XOR b XOR cin,
// carry = majority(a, b, cin).
func (s *Solver) fullAdder(a, b, cin clause.Lit) (sum, carryOut clause.Lit) {
	axb := s.xorGate(a, b)
	sum = s.xorGate(axb, cin)
	carryOut = s.orGate(s.andGate(a, b), s.andGate(axb, cin))
	return
}

// Add returns a theory variable equal to (a + b) mod 2^width via a
// ripple-carry adder, the primitive CreatePoly/CreatePoly64 below use
// to fold a normalized monomial list into a single bit-blasted result.
func (s *Solver) Add(a, b Var) (Var, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("bvadd")
	}
	width := len(s.bits[a])
	out := make([]clause.Lit, width)
	carry := s.constLit(false)
	for i := 0; i < width; i++ {
		out[i], carry = s.fullAdder(s.bits[a][i], s.bits[b][i], carry)
	}
	return s.register(out), nil
}

// Negate returns the two's-complement negation of v: flip every bit
// and add 1.
func (s *Solver) Negate(v Var) Var {
	width := len(s.bits[v])
	out := make([]clause.Lit, width)
	carry := s.constLit(true)
	for i := 0; i < width; i++ {
		out[i], carry = s.fullAdder(notLit(s.bits[v][i]), s.constLit(false), carry)
	}
	return s.register(out)
}

// CreatePoly64 bit-blasts a BV64_POLY-shaped sum of (coefficient, var)
// monomials (widths <= 64): each monomial is the theory variable
// multiplied by its constant coefficient via repeated doubling, then
// the results are summed with Add. A negative vars[i] denotes the
// constant term, whose coefficient is added as a constant.
func (s *Solver) CreatePoly64(width uint32, coeffs []uint64, vars []Var) (Var, error) {
	return s.createPoly(width, func(i int) (uint64, Var, bool) {
		if vars[i] < 0 {
			return coeffs[i], 0, false
		}
		return coeffs[i], vars[i], true
	}, len(coeffs))
}

// CreatePoly is the arbitrary-width analogue of CreatePoly64; widths
// above 64 still bit-blast into a flat literal vector, so the
// coefficient here is supplied pre-converted into the same uint64
// doubling form (the term layer's bvbuffer.Buffer already reduced it
// mod 2^width before handing monomials down).
func (s *Solver) CreatePoly(width uint32, coeffs []uint64, vars []Var) (Var, error) {
	return s.CreatePoly64(width, coeffs, vars)
}

func (s *Solver) createPoly(width uint32, at func(i int) (uint64, Var, bool), n int) (Var, error) {
	acc, err := s.CreateConst64(width, 0)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		coeff, v, hasVar := at(i)
		if !hasVar {
			c, err := s.CreateConst64(width, coeff)
			if err != nil {
				return 0, err
			}
			acc, err = s.Add(acc, c)
			if err != nil {
				return 0, err
			}
			continue
		}
		term, err := s.scaleByConst(v, coeff)
		if err != nil {
			return 0, err
		}
		acc, err = s.Add(acc, term)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// scaleByConst multiplies v by the constant coeff using shift-and-add
// (coeff's bits are walked from low to high; a 1 bit adds the
// current doubling of v into the accumulator).
func (s *Solver) scaleByConst(v Var, coeff uint64) (Var, error) {
	width := len(s.bits[v])
	acc, err := s.CreateConst64(uint32(width), 0)
	if err != nil {
		return 0, err
	}
	cur := v
	for bitsLeft := coeff; bitsLeft != 0; bitsLeft >>= 1 {
		if bitsLeft&1 != 0 {
			acc, err = s.Add(acc, cur)
			if err != nil {
				return 0, err
			}
		}
		if bitsLeft>>1 != 0 {
			cur, err = s.Add(cur, cur)
			if err != nil {
				return 0, err
			}
		}
	}
	return acc, nil
}

// ScaleByWords multiplies v by a constant given as little-endian
// 32-bit words, the arbitrary-width analogue of scaleByConst for
// BV_POLY monomials whose coefficient does not fit in a uint64.
func (s *Solver) ScaleByWords(v Var, words []uint32) (Var, error) {
	width := len(s.bits[v])
	acc, err := s.CreateConst64(uint32(width), 0)
	if err != nil {
		return 0, err
	}
	cur := v
	totalBits := len(words) * 32
	for i := 0; i < totalBits; i++ {
		word := words[i/32]
		if (word>>uint(i%32))&1 != 0 {
			acc, err = s.Add(acc, cur)
			if err != nil {
				return 0, err
			}
		}
		if i != totalBits-1 {
			cur, err = s.Add(cur, cur)
			if err != nil {
				return 0, err
			}
		}
	}
	return acc, nil
}

// CreatePolyWords bit-blasts a BV_POLY-shaped sum whose coefficients are
// little-endian word arrays (arbitrary width). A negative vars[i] marks
// the constant-term position, whose coefficient is added directly.
func (s *Solver) CreatePolyWords(width uint32, coeffWords [][]uint32, vars []Var) (Var, error) {
	acc, err := s.CreateConst64(width, 0)
	if err != nil {
		return 0, err
	}
	for i, v := range vars {
		if v < 0 {
			c, err := s.CreateConst(width, coeffWords[i])
			if err != nil {
				return 0, err
			}
			acc, err = s.Add(acc, c)
			if err != nil {
				return 0, err
			}
			continue
		}
		term, err := s.ScaleByWords(v, coeffWords[i])
		if err != nil {
			return 0, err
		}
		acc, err = s.Add(acc, term)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// CreatePprod bit-blasts a power product ∏ vᵢ^dᵢ by repeated
// multiplication: the accumulator is multiplied by each vᵢ, dᵢ times.
func (s *Solver) CreatePprod(width uint32, vars []Var, exps []uint32) (Var, error) {
	acc, err := s.CreateConst64(width, 1)
	if err != nil {
		return 0, err
	}
	for i, v := range vars {
		for e := uint32(0); e < exps[i]; e++ {
			acc, err = s.multiply(acc, v)
			if err != nil {
				return 0, err
			}
		}
	}
	return acc, nil
}

// multiply bit-blasts a full width x width multiplication via the
// schoolbook shift-and-add method, truncated to width (bit-vector
// multiplication is implicitly mod 2^width).
func (s *Solver) multiply(a, b Var) (Var, error) {
	if len(s.bits[a]) != len(s.bits[b]) {
		return 0, widthMismatch("bvmul")
	}
	width := len(s.bits[a])
	acc, err := s.CreateConst64(uint32(width), 0)
	if err != nil {
		return 0, err
	}
	for i := 0; i < width; i++ {
		bi := s.bits[b][i]
		shifted := s.shiftLeftConst(a, i)
		masked := make([]clause.Lit, width)
		for j := range masked {
			masked[j] = s.andGate(bi, shifted[j])
		}
		term := s.register(masked)
		acc, err = s.Add(acc, term)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// shiftLeftConst returns a's literal vector shifted left by n bit
// positions (low-order positions filled with false), without
// allocating a registered Var -- callers combine it further before
// registering.
func (s *Solver) shiftLeftConst(a Var, n int) []clause.Lit {
	width := len(s.bits[a])
	out := make([]clause.Lit, width)
	zero := s.constLit(false)
	for i := 0; i < width; i++ {
		if i < n {
			out[i] = zero
		} else {
			out[i] = s.bits[a][i-n]
		}
	}
	return out
}
