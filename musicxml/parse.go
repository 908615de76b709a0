// Package musicxml decodes partwise MusicXML scores into phrase lists and
// encodes reduced stave lists back out as a piano part.
package musicxml

import (
	"encoding/xml"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/note"
	"github.com/jsphweid/reducely/phrase"
	"github.com/jsphweid/reducely/score"
)

type xmlScore struct {
	XMLName xml.Name  `xml:"score-partwise"`
	Parts   []xmlPart `xml:"part"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     string          `xml:"number,attr"`
	Attributes []xmlAttributes `xml:"attributes"`
	Notes      []xmlNote       `xml:"note"`
}

type xmlAttributes struct {
	Divisions *int          `xml:"divisions"`
	Key       *xmlKey       `xml:"key"`
	Time      *xmlTime      `xml:"time"`
	Transpose *xmlTranspose `xml:"transpose"`
}

type xmlKey struct {
	Fifths int `xml:"fifths"`
}

type xmlTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type xmlTranspose struct {
	Chromatic    int `xml:"chromatic"`
	Diatonic     int `xml:"diatonic"`
	OctaveChange int `xml:"octave-change"`
}

type xmlNote struct {
	Pitch     *xmlPitch      `xml:"pitch"`
	Rest      *xmlEmpty      `xml:"rest"`
	Chord     *xmlEmpty      `xml:"chord"`
	Duration  *int           `xml:"duration"`
	Type      string         `xml:"type"`
	Dots      []xmlEmpty     `xml:"dot"`
	Notations []xmlNotations `xml:"notations"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter"`
	Octave int    `xml:"octave"`
}

type xmlNotations struct {
	Tied []xmlTied `xml:"tied"`
}

type xmlTied struct {
	Type string `xml:"type,attr"`
}

type xmlEmpty struct{}

// Parse decodes a partwise MusicXML document into a flat phrase list.
// Phrases are cut at rests, at chords, and whenever they grow past
// phraseLimit bars; a phraseLimit of zero disables the bar cutoff.
func Parse(data []byte, phraseLimit int) (*score.PhraseList, error) {
	var doc xmlScore
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding musicxml")
	}

	pl := &score.PhraseList{}
	for _, part := range doc.Parts {
		if err := parsePart(pl, part, phraseLimit); err != nil {
			return nil, errors.Wrapf(err, "decoding part %v", part.ID)
		}
	}
	return pl, nil
}

func parsePart(pl *score.PhraseList, part xmlPart, phraseLimit int) error {
	divisions := 0
	currentPos := fraction.Zero()
	notes := phrase.New()
	var trans transpose
	lastBar := 0

	flush := func() bool {
		if notes.Len() == 0 {
			return false
		}
		pl.Phrases = append(pl.Phrases, notes)
		notes = phrase.New()
		return true
	}

	for _, measure := range part.Measures {
		if len(measure.Attributes) > 0 {
			if err := parseAttributes(pl, measure.Attributes[0], currentPos, &divisions, &trans); err != nil {
				return err
			}
		}
		barNum, _ := strconv.Atoi(measure.Number)
		if phraseLimit > 0 && barNum >= lastBar+phraseLimit && notes.Len() > 0 {
			flush()
			lastBar = barNum
		}

		for _, n := range measure.Notes {
			duration, err := noteDuration(n, divisions)
			if err != nil {
				return errors.Wrapf(err, "in bar %v", measure.Number)
			}

			tie := note.TieNone
			if len(n.Notations) > 0 {
				for _, t := range n.Notations[0].Tied {
					switch t.Type {
					case "start":
						tie.Start()
					case "stop":
						tie.Stop()
					case "continue":
						tie.Stop()
						tie.Start()
					}
				}
			}

			switch {
			case n.Pitch != nil:
				step, ok := note.ParseName(n.Pitch.Step)
				if !ok {
					return errors.Errorf("unknown step %q in bar %v", n.Pitch.Step, measure.Number)
				}
				parsed := note.New(step, n.Pitch.Octave, n.Pitch.Alter, tie)
				trans.apply(&parsed)
				if n.Chord != nil {
					// chord followers share the previous note's onset and
					// each become their own single-entry phrase
					currentPos = currentPos.Sub(duration)
					chordPhrase := phrase.New()
					chordPhrase.Put(currentPos, &phrase.Single{Note: parsed}, duration)
					pl.Phrases = append(pl.Phrases, chordPhrase)
				} else {
					notes.Put(currentPos, &phrase.Single{Note: parsed}, duration)
				}
			case n.Rest != nil:
				// a rest only restarts the bar window if it actually cut a
				// phrase; leading rests leave the window anchored at zero
				if flush() {
					lastBar = barNum
				}
			}

			currentPos = currentPos.Add(duration)
		}
	}
	flush()
	return nil
}

func noteDuration(n xmlNote, divisions int) (fraction.Fraction, error) {
	if n.Duration != nil {
		if divisions == 0 {
			return fraction.Fraction{}, errors.New("note with duration before any divisions declaration")
		}
		return fraction.New(*n.Duration, divisions), nil
	}
	l, ok := note.ParseLength(n.Type)
	if !ok {
		return fraction.Fraction{}, errors.Errorf("note without duration has unknown type %q", n.Type)
	}
	dots := len(n.Dots)
	return l.Value().Mul(fraction.New(pow(3, dots), pow(2, dots))), nil
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func parseAttributes(pl *score.PhraseList, attrs xmlAttributes, currentPos fraction.Fraction, divisions *int, trans *transpose) error {
	if attrs.Divisions != nil {
		*divisions = *attrs.Divisions
	}
	if attrs.Transpose != nil {
		trans.chromatic = attrs.Transpose.Chromatic
		trans.diatonic = attrs.Transpose.Diatonic
		trans.octave = attrs.Transpose.OctaveChange
	}
	if attrs.Key != nil {
		// fold the instrument transposition into the key so that every
		// part's signature lands in concert pitch
		transposedKey := (attrs.Key.Fifths + trans.chromatic*7) % 12
		if err := pl.Keys.Set(currentPos, transposedKey); err != nil {
			return errors.Wrap(err, "key signature")
		}
	}
	if attrs.Time != nil {
		sig := model.TimeSig{Beats: attrs.Time.Beats, BeatType: attrs.Time.BeatType}
		if err := pl.Times.Set(currentPos, sig); err != nil {
			return errors.Wrap(err, "time signature")
		}
	}
	return nil
}
