// Package midi renders a reduced stave list to a standard MIDI file so a
// reduction can be auditioned without a notation program.
package midi

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/note"
	"github.com/jsphweid/reducely/phrase"
	"github.com/jsphweid/reducely/score"
)

const ticksPerQuarter = 480

const velocity = 100

// span is one sounding note: tied timeline entries coalesced into a single
// on/off pair.
type span struct {
	key        uint8
	start, end fraction.Fraction
}

func ticks(f fraction.Fraction) uint32 {
	return uint32(f.Num() * ticksPerQuarter / f.Den())
}

// phraseSpans walks a phrase and joins tie chains back into held notes. A
// stop tie continues an open span that ends exactly at the entry's onset; a
// start tie leaves the span open for the next entry.
func phraseSpans(p *phrase.Phrase) []span {
	open := make(map[int]int)
	var spans []span
	p.Each(func(pos fraction.Fraction, el phrase.Element, dur fraction.Fraction) {
		end := pos.Add(dur)
		for _, n := range elementNotes(el) {
			v := n.Value() + 12 // pitch values sit an octave below MIDI keys
			idx, isOpen := open[v]
			if isOpen && n.Tie.IsStop() && spans[idx].end == pos {
				spans[idx].end = end
			} else {
				spans = append(spans, span{key: uint8(v), start: pos, end: end})
				idx = len(spans) - 1
			}
			if n.Tie.IsStart() {
				open[v] = idx
			} else {
				delete(open, v)
			}
		}
	})
	return spans
}

func elementNotes(el phrase.Element) []note.Note {
	switch e := el.(type) {
	case *phrase.Single:
		return []note.Note{e.Note}
	case *phrase.Chord:
		return e.Notes
	default:
		return nil
	}
}

type event struct {
	tick uint32
	off  bool
	key  uint8
}

func staveTrack(name string, phrases []*phrase.Phrase) smf.Track {
	var events []event
	for _, p := range phrases {
		for _, s := range phraseSpans(p) {
			events = append(events, event{tick: ticks(s.start), key: s.key})
			events = append(events, event{tick: ticks(s.end), off: true, key: s.key})
		}
	}
	// offs first at equal ticks, so retriggered notes restart cleanly
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	var last uint32
	for _, e := range events {
		delta := e.tick - last
		last = e.tick
		if e.off {
			tr.Add(delta, midi.NoteOff(0, e.key))
		} else {
			tr.Add(delta, midi.NoteOn(0, e.key, velocity))
		}
	}
	tr.Close(0)
	return tr
}

// Render converts a reduced stave list into a multi-track MIDI file: one
// meta track carrying tempo and meter, then one track per stave.
func Render(sl *score.StaveList) *smf.SMF {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var meta smf.Track
	meta.Add(0, smf.MetaTrackSequenceName("reduction"))
	meta.Add(0, smf.MetaTempo(120))
	var last uint32
	sl.Times.Each(func(pos fraction.Fraction, sig model.TimeSig) {
		tick := ticks(pos)
		meta.Add(tick-last, smf.MetaMeter(uint8(sig.Beats), uint8(sig.BeatType)))
		last = tick
	})
	meta.Close(0)
	s.Tracks = append(s.Tracks, meta)

	for i, stave := range sl.Staves {
		s.Tracks = append(s.Tracks, staveTrack(fmt.Sprintf("stave %v", i+1), stave))
	}
	return &s
}

// Write renders the stave list and writes the MIDI bytes out.
func Write(sl *score.StaveList, w io.Writer) error {
	_, err := Render(sl).WriteTo(w)
	return err
}
