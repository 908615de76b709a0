package fraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(2, 1), New(6, 3))
	assert.Equal(New(1, 2), New(2, 4))
	assert.Equal(New(-1, 2), New(1, -2))
	assert.Equal(New(1, 2), New(-1, -2))
}

func TestNormalizationInvariant(t *testing.T) {
	assert := assert.New(t)
	for n := -6; n <= 6; n++ {
		for d := 1; d <= 8; d++ {
			for _, k := range []int{-3, -1, 2, 5} {
				assert.Equal(New(n, d), New(k*n, k*d))
			}
		}
	}
}

func TestAdd(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(3, 1), New(1, 1).Add(New(2, 1)))
	assert.Equal(New(1, 1), New(1, 2).Add(New(1, 2)))
	assert.Equal(New(7, 6), New(1, 2).Add(New(2, 3)))
}

func TestSub(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(1, 1), New(2, 1).Sub(New(1, 1)))
	assert.Equal(Zero(), New(1, 2).Sub(New(1, 2)))
	assert.Equal(New(1, 6), New(2, 3).Sub(New(1, 2)))
}

func TestMul(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(2, 1), New(1, 1).Mul(New(2, 1)))
	assert.Equal(New(1, 4), New(1, 2).Mul(New(1, 2)))
	assert.Equal(New(1, 3), New(1, 2).Mul(New(2, 3)))
}

func TestDiv(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(1, 2), New(1, 1).Div(New(2, 1)))
	assert.Equal(New(1, 1), New(1, 2).Div(New(1, 2)))
	assert.Equal(New(3, 4), New(1, 2).Div(New(2, 3)))
}

func TestRoundTripIdentities(t *testing.T) {
	assert := assert.New(t)
	samples := []Fraction{
		Zero(), New(1, 1), New(-3, 2), New(7, 6), New(5, 8), New(-11, 4),
	}
	for _, a := range samples {
		for _, b := range samples {
			assert.Equal(a, a.Add(b).Sub(b))
			if !b.IsZero() {
				assert.Equal(a, a.Mul(b).Div(b))
			}
		}
	}
}

func TestCmp(t *testing.T) {
	assert := assert.New(t)
	samples := []Fraction{
		New(-3, 2), New(-1, 4), Zero(), New(1, 4), New(1, 3), New(1, 2),
		New(2, 3), New(1, 1), New(7, 6), New(3, 2),
	}
	for i, a := range samples {
		for j, b := range samples {
			switch {
			case i < j:
				assert.Equal(-1, a.Cmp(b), "%v < %v", a, b)
			case i > j:
				assert.Equal(1, a.Cmp(b), "%v > %v", a, b)
			default:
				assert.Equal(0, a.Cmp(b))
			}
		}
	}
}

func TestRem(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(1, 1), New(5, 1).Rem(New(4, 1)))
	assert.Equal(Zero(), New(4, 1).Rem(New(2, 1)))
	assert.Equal(New(1, 2), New(7, 2).Rem(New(3, 2)))
	assert.Equal(New(3, 2), New(-1, 2).Rem(New(2, 1)))
	assert.Equal(New(-1, 2), New(3, 2).Rem(New(-2, 1)))
}

func TestWhole(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, New(5, 2).Whole())
	assert.Equal(0, New(1, 2).Whole())
	assert.Equal(-1, New(-3, 2).Whole())
}

func TestNeg(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(-1, 2), New(1, 2).Neg())
	assert.Equal(New(1, 2), New(-1, 2).Neg())
}

func TestString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("3/2", New(3, 2).String())
	assert.Equal("2", New(4, 2).String())
	assert.Equal("0", Zero().String())
}

func TestZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { New(1, 0) })
	assert.Panics(t, func() { New(1, 2).Div(Zero()) })
}
