package musicxml

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jsphweid/reducely/bars"
	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/note"
	"github.com/jsphweid/reducely/phrase"
	"github.com/jsphweid/reducely/score"
	"golang.org/x/exp/slices"
)

const docType = `DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd"`

// writer emits MusicXML tokens, remembering the division count and bar
// number of the measure being written. The first encoding error sticks.
type writer struct {
	enc              *xml.Encoder
	err              error
	currentDivisions int
	currentBar       int
}

func (w *writer) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *writer) start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) empty(name string, attrs ...xml.Attr) {
	w.start(name, attrs...)
	w.end(name)
}

func (w *writer) text(name, value string) {
	w.start(name)
	w.token(xml.CharData(value))
	w.end(name)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func newWriter(buf *bytes.Buffer) *writer {
	enc := xml.NewEncoder(buf)
	enc.Indent("", "    ")
	w := &writer{enc: enc, currentBar: 1}
	w.token(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)})
	w.token(xml.Directive(docType))
	w.start("score-partwise", attr("version", "3.1"))
	w.start("part-list")
	w.start("score-part", attr("id", "P1"))
	w.text("part-name", "Piano")
	w.end("score-part")
	w.end("part-list")
	w.start("part", attr("id", "P1"))
	return w
}

func (w *writer) finish() {
	w.end("part")
	w.end("score-partwise")
	if w.err == nil {
		w.err = w.enc.Flush()
	}
}

// startBar opens a measure and writes its attributes: the division count
// needed for the bar's smallest note, then any key, time or clef changes.
func (w *writer) startBar(smallest note.Length, clefs []note.Clef, key *int, time *model.TimeSig) {
	w.currentDivisions = smallest.BarDivisions()
	w.start("measure", attr("number", strconv.Itoa(w.currentBar)))
	w.start("attributes")
	w.text("divisions", strconv.Itoa(w.currentDivisions))
	if key != nil {
		w.start("key")
		w.text("fifths", strconv.Itoa(*key))
		w.end("key")
	}
	if time != nil {
		w.start("time")
		w.text("beats", strconv.Itoa(time.Beats))
		w.text("beat-type", strconv.Itoa(time.BeatType))
		w.end("time")
	}
	for number, clef := range clefs {
		w.start("clef", attr("number", strconv.Itoa(number+1)))
		w.text("sign", clef.Sign())
		w.text("line", clef.Line())
		w.end("clef")
	}
	w.end("attributes")
}

func (w *writer) endBar() {
	w.end("measure")
	w.currentBar++
}

// noteCommon writes the children shared by notes and rests, in the order the
// MusicXML DTD requires.
func (w *writer) noteCommon(length note.Length, voice, stave int, tie note.Tie) {
	w.text("duration", strconv.Itoa(length.Divisions(w.currentDivisions)))
	if tie.IsStop() {
		w.empty("tie", attr("type", "stop"))
	}
	if tie.IsStart() {
		w.empty("tie", attr("type", "start"))
	}
	w.text("voice", strconv.Itoa(voice))
	w.text("type", length.Name())
	w.text("staff", strconv.Itoa(stave))
	w.start("notations")
	if tie.IsStop() {
		w.empty("tied", attr("type", "stop"))
	}
	if tie.IsStart() {
		w.empty("tied", attr("type", "start"))
	}
	w.end("notations")
}

func (w *writer) rest(length note.Length, voice, stave int, barRest bool) {
	w.start("note")
	if barRest {
		w.empty("rest", attr("measure", "yes"))
	} else {
		w.empty("rest")
	}
	w.noteCommon(length, voice, stave, note.TieNone)
	w.end("note")
}

func (w *writer) note(length note.Length, n note.Note, voice, stave int, chord bool) {
	w.start("note")
	if chord {
		w.empty("chord")
	}
	w.start("pitch")
	w.text("step", n.Step.String())
	if n.Alter != 0 {
		w.text("alter", strconv.Itoa(n.Alter))
	}
	w.text("octave", strconv.Itoa(n.Octave))
	w.end("pitch")
	w.noteCommon(length, voice, stave, n.Tie)
	w.end("note")
}

func (w *writer) backup(length note.Length) {
	w.start("backup")
	w.text("duration", strconv.Itoa(length.Divisions(w.currentDivisions)))
	w.end("backup")
}

type barPhrase struct {
	p     *phrase.Phrase
	stave int
}

// Write encodes a reduced stave list as a single-part piano score. Every
// phrase is cut at bar lines first, then each bar is emitted stave by stave
// with rests and backups filling the gaps between phrases.
func Write(sl *score.StaveList) ([]byte, error) {
	if _, ok := sl.Times.At(fraction.Zero()); !ok {
		return nil, errors.New("no time signature at the start of the score")
	}
	barNums := bars.New(&sl.Times)
	numStaves := len(sl.Staves)

	var phraseBars [][]barPhrase
	var divisions []fraction.Fraction
	for staveIdx, phrases := range sl.Staves {
		for _, p := range phrases {
			current := p.Clone()
			for current.Len() > 0 {
				start := current.Start()
				barNum := barNums.BarNumber(start)
				for len(phraseBars) <= barNum {
					phraseBars = append(phraseBars, nil)
					divisions = append(divisions, fraction.Zero())
				}

				cut := current
				if split, crosses := barNums.CrossesBar(start, current.Length()); crosses {
					cut, current = current.Split(split)
				} else {
					current = phrase.New()
				}
				if divisions[barNum].IsZero() {
					divisions[barNum] = cut.MinDuration()
				} else {
					divisions[barNum] = divisions[barNum].Min(cut.MinDuration())
				}
				phraseBars[barNum] = append(phraseBars[barNum], barPhrase{p: cut, stave: staveIdx + 1})
			}
		}
	}

	buf := &bytes.Buffer{}
	w := newWriter(buf)
	for barNum, bar := range phraseBars {
		currentPos := barNums.Start(barNum)
		barEnd := currentPos.Add(barNums.Length(barNum))
		smallest := note.Quarter
		if !divisions[barNum].IsZero() {
			lengths := note.FromFraction(divisions[barNum])
			smallest = lengths[len(lengths)-1]
		}

		var key *int
		if k, has := sl.Keys.At(currentPos); has {
			key = &k
		}
		var time *model.TimeSig
		if sig := barNums.Time(barNum); barNum == 0 || sig != barNums.Time(barNum-1) {
			time = &sig
		}
		var clefs []note.Clef
		if barNum == 0 {
			for i := 0; i < numStaves-1; i++ {
				clefs = append(clefs, note.Treble)
			}
			if numStaves == 1 {
				clefs = append(clefs, note.Treble)
			} else {
				clefs = append(clefs, note.Bass)
			}
		}
		w.startBar(smallest, clefs, key, time)

		slices.SortStableFunc(bar, func(a, b barPhrase) bool {
			return a.stave < b.stave
		})
		voice, lastStave := 1, 0
		for _, bp := range bar {
			if bp.stave > lastStave {
				voice = (bp.stave-1)*4 + 1
			} else {
				voice++
			}

			if bp.p.Len() == 0 {
				w.rest(note.Whole, voice, bp.stave, true)
			} else {
				bp.p.Each(func(pos fraction.Fraction, el phrase.Element, dur fraction.Fraction) {
					if currentPos.Less(pos) {
						for _, l := range note.FromFraction(pos.Sub(currentPos)) {
							w.rest(l, voice, bp.stave, false)
							currentPos = currentPos.Add(l.Value())
						}
					} else if pos.Less(currentPos) {
						for _, l := range note.FromFraction(currentPos.Sub(pos)) {
							w.backup(l)
							currentPos = currentPos.Sub(l.Value())
						}
					}

					lengths := note.FromFraction(dur)
					for i, l := range lengths {
						piece := phrase.CloneElement(el)
						if len(lengths) > 1 {
							// chains of written lengths stay one sound: tie
							// every boundary inside the chain
							if i > 0 {
								phrase.StopTie(piece)
							}
							if i < len(lengths)-1 {
								phrase.StartTie(piece)
							}
						}
						w.element(l, piece, voice, bp.stave)
					}
					currentPos = currentPos.Add(dur)
				})
			}

			if currentPos.Less(barEnd) {
				for _, l := range note.FromFraction(barEnd.Sub(currentPos)) {
					w.rest(l, voice, bp.stave, false)
					currentPos = currentPos.Add(l.Value())
				}
			}
			lastStave = bp.stave
		}
		w.endBar()
	}

	w.finish()
	if w.err != nil {
		return nil, errors.Wrap(w.err, "encoding musicxml")
	}
	return buf.Bytes(), nil
}

func (w *writer) element(length note.Length, el phrase.Element, voice, stave int) {
	switch e := el.(type) {
	case *phrase.Single:
		w.note(length, e.Note, voice, stave, false)
	case *phrase.Chord:
		for i, n := range e.Notes {
			w.note(length, n, voice, stave, i > 0)
		}
	}
}
