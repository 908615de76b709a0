// Package phrase implements the conflict-free timeline of sounding events
// that represents one musical line, and the sounding-element union occupying
// each timeline slot.
package phrase

import "github.com/jsphweid/reducely/note"

// Element is what sounds at one (position, duration) slot: a single note or
// a chord of pitch-distinct notes. The two variants are *Single and *Chord.
type Element interface {
	element()
}

// Single holds one note.
type Single struct {
	Note note.Note
}

// Chord holds two or more simultaneous, pairwise pitch-distinct notes.
type Chord struct {
	Notes []note.Note
}

func (*Single) element() {}
func (*Chord) element()  {}

// CloneElement deep-copies an element so that tie mutations on the copy do
// not leak into the original.
func CloneElement(e Element) Element {
	switch el := e.(type) {
	case *Single:
		return &Single{Note: el.Note}
	case *Chord:
		notes := make([]note.Note, len(el.Notes))
		copy(notes, el.Notes)
		return &Chord{Notes: notes}
	default:
		panic("phrase: unknown element variant")
	}
}

func containsPitch(e Element, n note.Note) bool {
	switch el := e.(type) {
	case *Single:
		return el.Note.PitchEquals(n)
	case *Chord:
		for _, m := range el.Notes {
			if m.PitchEquals(n) {
				return true
			}
		}
		return false
	default:
		panic("phrase: unknown element variant")
	}
}

// hasStartTie returns the pitch-equal member carrying a start tie, if any.
func hasStartTie(e Element, n note.Note) *note.Note {
	switch el := e.(type) {
	case *Single:
		if el.Note.PitchEquals(n) && el.Note.Tie.IsStart() {
			return &el.Note
		}
	case *Chord:
		for i := range el.Notes {
			if el.Notes[i].PitchEquals(n) {
				if el.Notes[i].Tie.IsStart() {
					return &el.Notes[i]
				}
				return nil
			}
		}
	}
	return nil
}

// hasStopTie returns the pitch-equal member carrying a stop tie, if any.
func hasStopTie(e Element, n note.Note) *note.Note {
	switch el := e.(type) {
	case *Single:
		if el.Note.PitchEquals(n) && el.Note.Tie.IsStop() {
			return &el.Note
		}
	case *Chord:
		for i := range el.Notes {
			if el.Notes[i].PitchEquals(n) {
				if el.Notes[i].Tie.IsStop() {
					return &el.Notes[i]
				}
				return nil
			}
		}
	}
	return nil
}

// mergeNote folds a note into an element. A pitch-equal member absorbs the
// incoming tie flags; a new pitch extends a single to a chord or joins an
// existing chord. The (possibly new) element is returned.
func mergeNote(e Element, n note.Note) Element {
	switch el := e.(type) {
	case *Single:
		if n.PitchEquals(el.Note) {
			if n.Tie.IsStart() {
				el.Note.Tie.Start()
			}
			if n.Tie.IsStop() {
				el.Note.Tie.Stop()
			}
			return el
		}
		return &Chord{Notes: []note.Note{el.Note, n}}
	case *Chord:
		for i := range el.Notes {
			if el.Notes[i].PitchEquals(n) {
				if n.Tie.IsStart() {
					el.Notes[i].Tie.Start()
				}
				if n.Tie.IsStop() {
					el.Notes[i].Tie.Stop()
				}
				return el
			}
		}
		el.Notes = append(el.Notes, n)
		return el
	default:
		panic("phrase: unknown element variant")
	}
}

// StartTie adds a start tie to every note in the element.
func StartTie(e Element) {
	switch el := e.(type) {
	case *Single:
		el.Note.Tie.Start()
	case *Chord:
		for i := range el.Notes {
			el.Notes[i].Tie.Start()
		}
	}
}

// StopTie adds a stop tie to every note in the element.
func StopTie(e Element) {
	switch el := e.(type) {
	case *Single:
		el.Note.Tie.Stop()
	case *Chord:
		for i := range el.Notes {
			el.Notes[i].Tie.Stop()
		}
	}
}

// MinPitch returns the lowest semitone value in the element.
func MinPitch(e Element) int {
	switch el := e.(type) {
	case *Single:
		return el.Note.Value()
	case *Chord:
		min := el.Notes[0].Value()
		for _, n := range el.Notes[1:] {
			if v := n.Value(); v < min {
				min = v
			}
		}
		return min
	default:
		panic("phrase: unknown element variant")
	}
}

// MaxPitch returns the highest semitone value in the element.
func MaxPitch(e Element) int {
	switch el := e.(type) {
	case *Single:
		return el.Note.Value()
	case *Chord:
		max := el.Notes[0].Value()
		for _, n := range el.Notes[1:] {
			if v := n.Value(); v > max {
				max = v
			}
		}
		return max
	default:
		panic("phrase: unknown element variant")
	}
}

// MeanParts returns the pitch sum and note count of the element, kept apart
// so callers can combine several elements before dividing.
func MeanParts(e Element) (sum, count int) {
	switch el := e.(type) {
	case *Single:
		return el.Note.Value(), 1
	case *Chord:
		for _, n := range el.Notes {
			sum += n.Value()
		}
		return sum, len(el.Notes)
	default:
		panic("phrase: unknown element variant")
	}
}

func transposeElement(e Element, octaves int) {
	switch el := e.(type) {
	case *Single:
		el.Note.Octave += octaves
	case *Chord:
		for i := range el.Notes {
			el.Notes[i].Octave += octaves
		}
	}
}
