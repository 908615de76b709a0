package musicxml

import "github.com/jsphweid/reducely/note"

// transpose carries a part's written-to-sounding transposition.
type transpose struct {
	chromatic int
	diatonic  int
	octave    int
}

// apply rewrites a note to concert pitch: the letter moves by the diatonic
// offset and the alteration is corrected so the sounding change matches the
// chromatic offset exactly.
func (t transpose) apply(n *note.Note) {
	original := n.Value()
	stepChange := int(n.Step) + t.diatonic
	for stepChange < 0 {
		stepChange += 7
		n.Octave--
	}
	n.Step = note.Name(stepChange % 7)
	n.Octave += stepChange / 7
	difference := n.Value() - original
	n.Alter -= difference - t.chromatic
	n.Octave += t.octave
}
