// Package note models pitched notes: the seven diatonic letters, octave and
// semitone alteration, and the tie flags linking adjacent notes of the same
// pitch into one sustained sound.
package note

// Name is a diatonic note letter, ordered C through B so that diatonic
// transposition can use plain index arithmetic.
type Name int

const (
	C Name = iota
	D
	E
	F
	G
	A
	B
)

var semitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// Semitone returns the letter's base semitone value within the octave.
func (n Name) Semitone() int { return semitones[n] }

func (n Name) String() string {
	return [7]string{"C", "D", "E", "F", "G", "A", "B"}[n]
}

// ParseName parses a MusicXML step letter.
func ParseName(s string) (Name, bool) {
	switch s {
	case "C":
		return C, true
	case "D":
		return D, true
	case "E":
		return E, true
	case "F":
		return F, true
	case "G":
		return G, true
	case "A":
		return A, true
	case "B":
		return B, true
	}
	return 0, false
}

// Tie is a set of tie flags. Start and Stop only ever accumulate; the
// Remove variants subtract a single flag and exist solely for re-deriving
// ties after a merge.
type Tie int

const (
	TieNone Tie = iota
	TieStart
	TieStop
	TieStartStop
)

// Start ensures the start flag is present.
func (t *Tie) Start() {
	switch *t {
	case TieNone, TieStart:
		*t = TieStart
	default:
		*t = TieStartStop
	}
}

// Stop ensures the stop flag is present.
func (t *Tie) Stop() {
	switch *t {
	case TieNone, TieStop:
		*t = TieStop
	default:
		*t = TieStartStop
	}
}

func (t Tie) IsStart() bool { return t == TieStart || t == TieStartStop }

func (t Tie) IsStop() bool { return t == TieStop || t == TieStartStop }

// RemoveStart subtracts the start flag, keeping any stop flag.
func (t *Tie) RemoveStart() {
	switch *t {
	case TieStart, TieNone:
		*t = TieNone
	default:
		*t = TieStop
	}
}

// RemoveStop subtracts the stop flag, keeping any start flag.
func (t *Tie) RemoveStop() {
	switch *t {
	case TieStop, TieNone:
		*t = TieNone
	default:
		*t = TieStart
	}
}

// Note is a pitched note. Position and duration live outside the note, in
// the timeline that holds it.
type Note struct {
	Step   Name
	Octave int
	Alter  int
	Tie    Tie
}

func New(step Name, octave, alter int, tie Tie) Note {
	return Note{Step: step, Octave: octave, Alter: alter, Tie: tie}
}

// Value returns the absolute semitone number of the note (C4 = 48).
func (n Note) Value() int {
	return n.Octave*12 + n.Alter + n.Step.Semitone()
}

// PitchEquals reports whether two notes name the same pitch. Enharmonic
// spellings are distinct.
func (n Note) PitchEquals(o Note) bool {
	return n.Step == o.Step && n.Octave == o.Octave && n.Alter == o.Alter
}
