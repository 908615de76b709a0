package note

import (
	"github.com/jsphweid/reducely/fraction"
)

// Length is a representable note value, from a 1024th note up to a maxima.
// The ordering is by duration, shortest first.
type Length int

const (
	N1024th Length = iota
	N512th
	N256th
	N128th
	N64th
	N32nd
	N16th
	Eighth
	Quarter
	Half
	Whole
	Breve
	Long
	Maxima
)

// Value returns the length in quarter notes.
func (l Length) Value() fraction.Fraction {
	switch l {
	case N1024th:
		return fraction.New(1, 256)
	case N512th:
		return fraction.New(1, 128)
	case N256th:
		return fraction.New(1, 64)
	case N128th:
		return fraction.New(1, 32)
	case N64th:
		return fraction.New(1, 16)
	case N32nd:
		return fraction.New(1, 8)
	case N16th:
		return fraction.New(1, 4)
	case Eighth:
		return fraction.New(1, 2)
	case Quarter:
		return fraction.New(1, 1)
	case Half:
		return fraction.New(2, 1)
	case Whole:
		return fraction.New(4, 1)
	case Breve:
		return fraction.New(8, 1)
	case Long:
		return fraction.New(16, 1)
	default:
		return fraction.New(32, 1)
	}
}

// Name returns the MusicXML type name for the length.
func (l Length) Name() string {
	return [14]string{
		"1024th", "512th", "256th", "128th", "64th", "32nd", "16th",
		"eighth", "quarter", "half", "whole", "breve", "long", "maxima",
	}[l]
}

// ParseLength parses a MusicXML note type name.
func ParseLength(s string) (Length, bool) {
	for l := N1024th; l <= Maxima; l++ {
		if l.Name() == s {
			return l, true
		}
	}
	return 0, false
}

// BarDivisions returns the per-quarter division count needed to represent
// this length exactly when it is the smallest note in a bar.
func (l Length) BarDivisions() int {
	switch l {
	case N1024th:
		return 256
	case N512th:
		return 128
	case N256th:
		return 64
	case N128th:
		return 32
	case N64th:
		return 16
	case N32nd:
		return 8
	case N16th:
		return 4
	case Eighth:
		return 2
	default:
		return 1
	}
}

// thirtySecondths of a quarter note per unit of this length, scaled so that
// Divisions below stays in integers.
func (l Length) unit() int {
	switch l {
	case N1024th:
		return 8192
	case N512th:
		return 4096
	case N256th:
		return 2048
	case N128th:
		return 1024
	case N64th:
		return 512
	case N32nd:
		return 256
	case N16th:
		return 128
	case Eighth:
		return 64
	case Quarter:
		return 32
	case Half:
		return 16
	case Whole:
		return 8
	case Breve:
		return 4
	case Long:
		return 2
	default:
		return 1
	}
}

// Divisions returns the duration of this length expressed in the given
// per-quarter division count.
func (l Length) Divisions(current int) int {
	return (current * 32) / l.unit()
}

func fromDuration(numerator, denominator int) (Length, bool) {
	f := fraction.New(numerator, denominator)
	for l := N1024th; l <= Maxima; l++ {
		if l.Value() == f {
			return l, true
		}
	}
	return 0, false
}

// FromFraction decomposes a nonnegative duration into a greedy largest-first
// sequence of note lengths that sum exactly to it. A zero duration yields an
// empty sequence.
func FromFraction(f fraction.Fraction) []Length {
	if f.Less(fraction.Zero()) {
		panic("note: negative duration")
	}
	var lengths []Length
	chunk := fraction.New(32, 1)
	for !f.IsZero() {
		if chunk.Cmp(f) <= 0 {
			f = f.Sub(chunk)
			l, ok := fromDuration(chunk.Num(), chunk.Den())
			if !ok {
				panic("note: unrepresentable chunk " + chunk.String())
			}
			lengths = append(lengths, l)
		}
		chunk = chunk.Div(fraction.New(2, 1))
	}
	return lengths
}

// Clef is an output stave clef.
type Clef int

const (
	Treble Clef = iota
	Bass
)

// Sign returns the MusicXML clef sign.
func (c Clef) Sign() string {
	if c == Bass {
		return "F"
	}
	return "G"
}

// Line returns the MusicXML clef line.
func (c Clef) Line() string {
	if c == Bass {
		return "4"
	}
	return "2"
}
