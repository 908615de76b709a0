package model

import (
	"testing"

	"github.com/jsphweid/reducely/fraction"
	"github.com/stretchr/testify/assert"
)

func TestSigMapSetAndLookup(t *testing.T) {
	assert := assert.New(t)
	var m SigMap[TimeSig]

	assert.Nil(m.Set(fraction.New(16, 1), TimeSig{Beats: 3, BeatType: 4}))
	assert.Nil(m.Set(fraction.Zero(), TimeSig{Beats: 4, BeatType: 4}))
	assert.Equal(2, m.Len())

	v, ok := m.At(fraction.Zero())
	assert.True(ok)
	assert.Equal(TimeSig{Beats: 4, BeatType: 4}, v)

	_, ok = m.At(fraction.New(8, 1))
	assert.False(ok)

	v, ok = m.Floor(fraction.New(8, 1))
	assert.True(ok)
	assert.Equal(TimeSig{Beats: 4, BeatType: 4}, v)

	v, ok = m.Floor(fraction.New(20, 1))
	assert.True(ok)
	assert.Equal(TimeSig{Beats: 3, BeatType: 4}, v)
}

func TestSigMapFloorBeforeFirst(t *testing.T) {
	var m SigMap[int]
	assert.Nil(t, m.Set(fraction.New(4, 1), 7))
	_, ok := m.Floor(fraction.Zero())
	assert.False(t, ok)
}

func TestSigMapConflicts(t *testing.T) {
	assert := assert.New(t)
	var m SigMap[int]

	assert.Nil(m.Set(fraction.Zero(), 2))
	assert.Nil(m.Set(fraction.Zero(), 2))
	assert.NotNil(m.Set(fraction.Zero(), 5))
	assert.Equal(1, m.Len())
}

func TestSigMapEachOrder(t *testing.T) {
	var m SigMap[int]
	assert.Nil(t, m.Set(fraction.New(8, 1), 3))
	assert.Nil(t, m.Set(fraction.Zero(), 1))
	assert.Nil(t, m.Set(fraction.New(4, 1), 2))

	var got []int
	m.Each(func(pos fraction.Fraction, v int) {
		got = append(got, v)
	})
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestOptionsValidate(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.Staves = 0
	assert.NotNil(bad.Validate())

	bad = DefaultOptions()
	bad.Handspan = 11
	assert.NotNil(bad.Validate())

	unlimited := DefaultOptions()
	unlimited.PhraseLimit = 0
	assert.Nil(unlimited.Validate())

	bad = DefaultOptions()
	bad.PhraseLimit = -1
	assert.NotNil(bad.Validate())
}
