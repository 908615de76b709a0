package midi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/note"
	"github.com/jsphweid/reducely/phrase"
	"github.com/jsphweid/reducely/score"
)

type onOff struct {
	tick int64
	off  bool
	key  uint8
}

func trackNotes(t *testing.T, tr smf.Track) []onOff {
	t.Helper()
	var res []onOff
	var absTicks int64
	for _, event := range tr {
		absTicks += int64(event.Delta)
		var channel uint8
		var key uint8
		var velocity uint8
		switch {
		case event.Message.GetNoteOn(&channel, &key, &velocity):
			res = append(res, onOff{tick: absTicks, key: key})
		case event.Message.GetNoteOff(&channel, &key, &velocity):
			res = append(res, onOff{tick: absTicks, off: true, key: key})
		}
	}
	return res
}

func testStaveList(t *testing.T) *score.StaveList {
	t.Helper()
	sl := &score.StaveList{}
	assert.Nil(t, sl.Times.Set(fraction.Zero(), model.TimeSig{Beats: 4, BeatType: 4}))

	p := phrase.New()
	p.AddNote(note.New(note.C, 4, 0, note.TieNone), fraction.Zero(), fraction.New(1, 1))
	p.AddNote(note.New(note.E, 4, 0, note.TieNone), fraction.New(1, 1), fraction.New(1, 1))
	sl.Staves = [][]*phrase.Phrase{{p}}
	return sl
}

func TestRenderTracks(t *testing.T) {
	assert := assert.New(t)
	s := Render(testStaveList(t))

	// one meta track plus one track per stave
	assert.Len(s.Tracks, 2)

	notes := trackNotes(t, s.Tracks[1])
	assert.Equal([]onOff{
		{tick: 0, key: 60},
		{tick: 480, off: true, key: 60},
		{tick: 480, key: 64},
		{tick: 960, off: true, key: 64},
	}, notes)
}

func TestRenderCoalescesTies(t *testing.T) {
	assert := assert.New(t)
	sl := &score.StaveList{}
	assert.Nil(sl.Times.Set(fraction.Zero(), model.TimeSig{Beats: 4, BeatType: 4}))

	p := phrase.New()
	p.AddNote(note.New(note.C, 4, 0, note.TieStart), fraction.Zero(), fraction.New(2, 1))
	p.AddNote(note.New(note.C, 4, 0, note.TieStop), fraction.New(2, 1), fraction.New(2, 1))
	sl.Staves = [][]*phrase.Phrase{{p}}

	notes := trackNotes(t, Render(sl).Tracks[1])
	assert.Equal([]onOff{
		{tick: 0, key: 60},
		{tick: 1920, off: true, key: 60},
	}, notes)
}

func TestWriteRoundTrips(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer
	assert.Nil(Write(testStaveList(t), &buf))

	read, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.Nil(err)
	assert.Len(read.Tracks, 2)
	assert.Equal(smf.MetricTicks(ticksPerQuarter), read.TimeFormat)
}
