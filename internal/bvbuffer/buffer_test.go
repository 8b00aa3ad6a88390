package bvbuffer_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"qfbv/internal/bvbuffer"
)

func TestBuffer64NormalizesModulo(t *testing.T) {
	buf := bvbuffer.NewBuffer64(8)
	buf.AddConstant(250)
	buf.AddConstant(10) // 260 mod 256 = 4
	buf.AddMono(3, 5)
	buf.AddMono(0xFF, 5) // coefficient wraps mod 256

	got := buf.Normalize()
	require.Equal(t, []bvbuffer.Monomial64{
		{Coeff: 4, Var: 0},
		{Coeff: (3 + 0xFF) & 0xFF, Var: 5},
	}, got)
}

func TestBuffer64ResetsAfterNormalize(t *testing.T) {
	buf := bvbuffer.NewBuffer64(8)
	buf.AddConstant(1)
	_ = buf.Normalize()
	got := buf.Normalize()
	require.Equal(t, []bvbuffer.Monomial64{{Coeff: 0, Var: 0}}, got)
}

func TestBuffer64DropsZeroCoefficients(t *testing.T) {
	buf := bvbuffer.NewBuffer64(8)
	buf.AddMono(1, 3)
	buf.AddMono(255, 3) // 1+255 = 256 = 0 mod 256
	got := buf.Normalize()
	require.Equal(t, []bvbuffer.Monomial64{{Coeff: 0, Var: 0}}, got)
}

func TestBufferArbitraryWidthModulus(t *testing.T) {
	buf := bvbuffer.NewBuffer(128)
	huge := new(big.Int).Lsh(big.NewInt(1), 127)
	buf.AddMono(huge, 1)
	buf.AddMono(huge, 1) // sum = 2^128 = 0 mod 2^128

	got := buf.Normalize()
	require.Equal(t, []bvbuffer.Monomial{{Coeff: big.NewInt(0), Var: 0}}, got)
}

func TestModInverseOdd(t *testing.T) {
	inv, ok := bvbuffer.ModInverseOdd(big.NewInt(3), 8)
	require.True(t, ok)
	product := new(big.Int).Mul(big.NewInt(3), inv)
	product.Mod(product, new(big.Int).Lsh(big.NewInt(1), 8))
	require.Equal(t, big.NewInt(1), product)
}

func TestModInverseOddRejectsEven(t *testing.T) {
	_, ok := bvbuffer.ModInverseOdd(big.NewInt(4), 8)
	require.False(t, ok)
}

func TestBigFromUint32Words(t *testing.T) {
	v := bvbuffer.BigFromUint32Words([]uint32{0xFFFFFFFF, 0x1})
	expected := new(big.Int).Lsh(big.NewInt(1), 32)
	expected.Add(expected, big.NewInt(0xFFFFFFFF))
	require.Equal(t, expected, v)
}
