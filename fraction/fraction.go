// Package fraction implements exact rational numbers used for every note
// position and duration. No floating point is involved anywhere: values are
// kept in lowest terms with a positive denominator, so two equal fractions
// compare equal with == and a Fraction can be used as a map key.
package fraction

import "fmt"

// Fraction is an immutable rational value. Construct with New or Zero; the
// struct zero value has a zero denominator and must not be used.
type Fraction struct {
	num int
	den int
}

// New creates a fraction reduced to lowest terms. The sign is carried by the
// numerator. A zero denominator is a programming error.
func New(numerator, denominator int) Fraction {
	if denominator == 0 {
		panic("fraction: zero denominator")
	}
	n, d := balance(numerator, denominator)
	return Fraction{num: n, den: d}
}

// Zero returns the zero fraction.
func Zero() Fraction {
	return Fraction{num: 0, den: 1}
}

func gcd(a, b int) int {
	if a == 0 {
		return b
	}
	return gcd(b%a, a)
}

func balance(numerator, denominator int) (int, int) {
	// keep the sign on the numerator
	if denominator < 0 {
		numerator = -numerator
		denominator = -denominator
	}
	g := gcd(numerator, denominator)
	if g < 0 {
		g = -g
	}
	return numerator / g, denominator / g
}

func (f Fraction) Num() int { return f.num }

func (f Fraction) Den() int { return f.den }

func (f Fraction) IsZero() bool { return f.num == 0 }

// Whole truncates the fraction to a whole number.
func (f Fraction) Whole() int { return f.num / f.den }

func (f Fraction) Add(o Fraction) Fraction {
	if f.den == o.den {
		return New(f.num+o.num, f.den)
	}
	return New(f.num*o.den+o.num*f.den, f.den*o.den)
}

func (f Fraction) Sub(o Fraction) Fraction {
	if f.den == o.den {
		return New(f.num-o.num, f.den)
	}
	return New(f.num*o.den-o.num*f.den, f.den*o.den)
}

func (f Fraction) Mul(o Fraction) Fraction {
	return New(f.num*o.num, f.den*o.den)
}

// Div divides by o. Dividing by zero is a programming error.
func (f Fraction) Div(o Fraction) Fraction {
	return New(f.num*o.den, f.den*o.num)
}

func (f Fraction) Neg() Fraction {
	return New(-f.num, f.den)
}

// Rem returns f modulo o, floored: the result has the sign of o, so a
// negative f still maps into [0, o) for positive o.
func (f Fraction) Rem(o Fraction) Fraction {
	r := f.Sub(New(f.Div(o).Whole(), 1).Mul(o))
	if r.num != 0 && (r.num < 0) != (o.num < 0) {
		r = r.Add(o)
	}
	return r
}

// Cmp compares two fractions by cross-multiplication, returning -1, 0 or 1.
func (f Fraction) Cmp(o Fraction) int {
	a := f.num * o.den
	b := o.num * f.den
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (f Fraction) Less(o Fraction) bool { return f.Cmp(o) < 0 }

// Min returns the smaller of f and o.
func (f Fraction) Min(o Fraction) Fraction {
	if o.Less(f) {
		return o
	}
	return f
}

func (f Fraction) String() string {
	if f.den == 1 {
		return fmt.Sprintf("%d", f.num)
	}
	return fmt.Sprintf("%d/%d", f.num, f.den)
}
