package model

import (
	"fmt"
	"sort"

	"github.com/jsphweid/reducely/fraction"
)

type TimeSig struct {
	Beats    int
	BeatType int
}

func (t TimeSig) String() string {
	return fmt.Sprintf("%d/%d", t.Beats, t.BeatType)
}

// SigMap is a position-ordered map of signature changes (key or time). Parts
// of a score may restate the same signature at the same position, but two
// different signatures at one position is a conflict.
type SigMap[V comparable] struct {
	positions []fraction.Fraction
	values    []V
}

func (m *SigMap[V]) Len() int { return len(m.positions) }

func (m *SigMap[V]) search(pos fraction.Fraction) (int, bool) {
	i := sort.Search(len(m.positions), func(i int) bool {
		return m.positions[i].Cmp(pos) >= 0
	})
	return i, i < len(m.positions) && m.positions[i] == pos
}

// Set records v at pos. Restating the value already there is a no-op;
// a different value at an occupied position is an error.
func (m *SigMap[V]) Set(pos fraction.Fraction, v V) error {
	i, exact := m.search(pos)
	if exact {
		if m.values[i] != v {
			return fmt.Errorf("conflicting values at position %v: %v vs %v", pos, m.values[i], v)
		}
		return nil
	}
	m.positions = append(m.positions, fraction.Fraction{})
	copy(m.positions[i+1:], m.positions[i:])
	m.positions[i] = pos
	m.values = append(m.values, v)
	copy(m.values[i+1:], m.values[i:])
	m.values[i] = v
	return nil
}

// At returns the value recorded exactly at pos.
func (m *SigMap[V]) At(pos fraction.Fraction) (V, bool) {
	if i, exact := m.search(pos); exact {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Floor returns the value in effect at pos: the one recorded at the nearest
// position at or before it.
func (m *SigMap[V]) Floor(pos fraction.Fraction) (V, bool) {
	i, exact := m.search(pos)
	if !exact {
		if i == 0 {
			var zero V
			return zero, false
		}
		i--
	}
	return m.values[i], true
}

// Each calls fn for every change in position order.
func (m *SigMap[V]) Each(fn func(pos fraction.Fraction, v V)) {
	for i, pos := range m.positions {
		fn(pos, m.values[i])
	}
}
