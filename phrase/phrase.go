package phrase

import (
	"sort"

	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/note"
)

type entry struct {
	pos fraction.Fraction
	el  Element
	dur fraction.Fraction
}

// Phrase is an ordered, conflict-free timeline: entries are keyed by
// position, and no two entries' [pos, pos+dur) intervals overlap. The
// invariant is maintained solely by AddNote's overlap resolution; an empty
// phrase is legal and represents silence.
type Phrase struct {
	entries []entry
}

// New returns an empty phrase.
func New() *Phrase {
	return &Phrase{}
}

// Len returns the number of timeline entries.
func (p *Phrase) Len() int { return len(p.entries) }

// Start returns the position of the first entry. Calling it on an empty
// phrase is a programming error.
func (p *Phrase) Start() fraction.Fraction {
	if len(p.entries) == 0 {
		panic("phrase: Start on empty phrase")
	}
	return p.entries[0].pos
}

// End returns the end of the last entry.
func (p *Phrase) End() fraction.Fraction {
	if len(p.entries) == 0 {
		panic("phrase: End on empty phrase")
	}
	last := p.entries[len(p.entries)-1]
	return last.pos.Add(last.dur)
}

// Length returns End minus Start.
func (p *Phrase) Length() fraction.Fraction {
	return p.End().Sub(p.Start())
}

// First returns the first sounding element.
func (p *Phrase) First() Element {
	if len(p.entries) == 0 {
		panic("phrase: First on empty phrase")
	}
	return p.entries[0].el
}

// MinDuration returns the shortest entry duration.
func (p *Phrase) MinDuration() fraction.Fraction {
	if len(p.entries) == 0 {
		panic("phrase: MinDuration on empty phrase")
	}
	min := p.entries[0].dur
	for _, e := range p.entries[1:] {
		min = min.Min(e.dur)
	}
	return min
}

// search returns the index of the first entry at or after pos, and whether
// an entry sits exactly at pos.
func (p *Phrase) search(pos fraction.Fraction) (int, bool) {
	i := sort.Search(len(p.entries), func(i int) bool {
		return p.entries[i].pos.Cmp(pos) >= 0
	})
	return i, i < len(p.entries) && p.entries[i].pos == pos
}

func (p *Phrase) insertEntry(e entry) {
	i, exact := p.search(e.pos)
	if exact {
		panic("phrase: duplicate entry at " + e.pos.String())
	}
	p.entries = append(p.entries, entry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = e
}

func (p *Phrase) removeAt(i int) entry {
	e := p.entries[i]
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return e
}

// nextOverlap returns the position of the nearest entry strictly after pos
// whose start the interval [pos, pos+dur) would run past.
func (p *Phrase) nextOverlap(pos, dur fraction.Fraction) (fraction.Fraction, bool) {
	i, exact := p.search(pos)
	if exact {
		i++
	}
	if i < len(p.entries) && pos.Add(dur).Cmp(p.entries[i].pos) > 0 {
		return p.entries[i].pos, true
	}
	return fraction.Zero(), false
}

// previousOverlap returns the position of the nearest entry strictly before
// pos that extends past pos.
func (p *Phrase) previousOverlap(pos fraction.Fraction) (fraction.Fraction, bool) {
	i, _ := p.search(pos)
	if i == 0 {
		return fraction.Zero(), false
	}
	prev := p.entries[i-1]
	if prev.pos.Add(prev.dur).Cmp(pos) > 0 {
		return prev.pos, true
	}
	return fraction.Zero(), false
}

// Add inserts an element into the timeline, resolving any overlap with
// existing entries. A chord is inserted note by note.
func (p *Phrase) Add(el Element, pos, dur fraction.Fraction) {
	switch e := el.(type) {
	case *Single:
		p.AddNote(e.Note, pos, dur)
	case *Chord:
		for _, n := range e.Notes {
			p.AddNote(n, pos, dur)
		}
	default:
		panic("phrase: unknown element variant")
	}
}

// AddNote inserts one note, preserving the no-overlap invariant and tie
// continuity. Overlap with a later entry splits the note into a tied pair;
// overlap with an earlier entry evicts that entry and re-inserts it against
// the new note; an entry already at pos absorbs, splits around, or is
// re-split against the note depending on the relative durations.
func (p *Phrase) AddNote(n note.Note, pos, dur fraction.Fraction) {
	if next, ok := p.nextOverlap(pos, dur); ok {
		i, _ := p.search(next)
		if !containsPitch(p.entries[i].el, n) {
			// split: the head is tie-started, the continuation tie-stopped
			tail := n
			tailDur := dur.Sub(next.Sub(pos))
			n.Tie.Start()
			tail.Tie.Stop()
			p.AddNote(tail, next, tailDur)
		}
		// the boundary entry already covers the continuation
		dur = next.Sub(pos)
	}

	if prev, ok := p.previousOverlap(pos); ok {
		i, _ := p.search(prev)
		evicted := p.removeAt(i)
		p.insertEntry(entry{pos: pos, el: &Single{Note: n}, dur: dur})
		// reinsert lets the evicted content re-split against the new note
		p.Add(evicted.el, evicted.pos, evicted.dur)
		return
	}

	i, exact := p.search(pos)
	if !exact {
		p.insertEntry(entry{pos: pos, el: &Single{Note: n}, dur: dur})
		return
	}

	length := p.entries[i].dur
	repairPrev := false
	switch length.Cmp(dur) {
	case -1:
		// existing entry absorbs the head, the remainder continues after it
		tail := n
		tail.Tie.Stop()
		n.Tie.Start()
		if tied := hasStopTie(p.entries[i].el, n); tied != nil {
			tied.Tie.RemoveStop()
			repairPrev = true
		}
		p.entries[i].el = mergeNote(p.entries[i].el, n)
		p.insertEntry(entry{pos: pos.Add(length), el: &Single{Note: tail}, dur: dur.Sub(length)})
	case 0:
		if tied := hasStopTie(p.entries[i].el, n); tied != nil {
			tied.Tie.RemoveStop()
			repairPrev = true
		}
		p.entries[i].el = mergeNote(p.entries[i].el, n)
	default:
		// existing entry is longer: replace it and re-split it against the
		// shorter new note
		old := p.entries[i]
		p.entries[i] = entry{pos: pos, el: &Single{Note: n}, dur: dur}
		p.Add(old.el, pos, old.dur)
	}

	if repairPrev {
		// the merge erased a stop tie, so the start tie it continued from,
		// on the nearest entry before pos, must go too
		if j, _ := p.search(pos); j > 0 {
			if tied := hasStartTie(p.entries[j-1].el, n); tied != nil {
				tied.Tie.RemoveStart()
			}
		}
	}
}

// Put sets the element at a position directly, replacing any entry there.
// It is the decode-side constructor for event streams that are already
// sequential; anything that may overlap must go through Add.
func (p *Phrase) Put(pos fraction.Fraction, el Element, dur fraction.Fraction) {
	if i, exact := p.search(pos); exact {
		p.entries[i] = entry{pos: pos, el: el, dur: dur}
		return
	}
	p.insertEntry(entry{pos: pos, el: el, dur: dur})
}

// Merge folds every entry of other into p, in position order. other must
// not be used afterwards.
func (p *Phrase) Merge(other *Phrase) {
	for _, e := range other.entries {
		p.Add(e.el, e.pos, e.dur)
	}
}

// Split partitions the phrase at a point. An entry straddling the cut is
// duplicated into a tie-started left part and a tie-stopped right part. The
// receiver must not be used afterwards.
func (p *Phrase) Split(at fraction.Fraction) (*Phrase, *Phrase) {
	left, right := New(), New()
	for _, e := range p.entries {
		end := e.pos.Add(e.dur)
		switch {
		case end.Cmp(at) <= 0:
			left.Add(e.el, e.pos, e.dur)
		case e.pos.Cmp(at) < 0:
			head := CloneElement(e.el)
			StartTie(head)
			StopTie(e.el)
			left.Add(head, e.pos, at.Sub(e.pos))
			right.Add(e.el, at, end.Sub(at))
		default:
			right.Add(e.el, e.pos, e.dur)
		}
	}
	return left, right
}

// MinVal returns the lowest pitch sounding anywhere in the phrase.
func (p *Phrase) MinVal() int {
	if len(p.entries) == 0 {
		panic("phrase: MinVal on empty phrase")
	}
	min := MinPitch(p.entries[0].el)
	for _, e := range p.entries[1:] {
		if v := MinPitch(e.el); v < min {
			min = v
		}
	}
	return min
}

// MaxVal returns the highest pitch sounding anywhere in the phrase.
func (p *Phrase) MaxVal() int {
	if len(p.entries) == 0 {
		panic("phrase: MaxVal on empty phrase")
	}
	max := MaxPitch(p.entries[0].el)
	for _, e := range p.entries[1:] {
		if v := MaxPitch(e.el); v > max {
			max = v
		}
	}
	return max
}

// Mean returns the mean pitch over every note in the phrase.
func (p *Phrase) Mean() int {
	var total, count int
	for _, e := range p.entries {
		sum, n := MeanParts(e.el)
		total += sum
		count += n
	}
	if count == 0 {
		panic("phrase: Mean on empty phrase")
	}
	return total / count
}

// covering returns the entry whose interval covers pos, if any.
func (p *Phrase) covering(pos fraction.Fraction) (entry, bool) {
	i, exact := p.search(pos)
	if !exact {
		if i == 0 {
			return entry{}, false
		}
		i--
	}
	e := p.entries[i]
	if e.pos.Add(e.dur).Cmp(pos) > 0 {
		return e, true
	}
	return entry{}, false
}

// MinAt returns the lowest pitch sounding at pos, if the phrase covers it.
func (p *Phrase) MinAt(pos fraction.Fraction) (int, bool) {
	e, ok := p.covering(pos)
	if !ok {
		return 0, false
	}
	return MinPitch(e.el), true
}

// MaxAt returns the highest pitch sounding at pos, if the phrase covers it.
func (p *Phrase) MaxAt(pos fraction.Fraction) (int, bool) {
	e, ok := p.covering(pos)
	if !ok {
		return 0, false
	}
	return MaxPitch(e.el), true
}

// MeanAt returns the (sum, count) mean parts of the element sounding at pos.
func (p *Phrase) MeanAt(pos fraction.Fraction) (sum, count int, ok bool) {
	e, covered := p.covering(pos)
	if !covered {
		return 0, 0, false
	}
	sum, count = MeanParts(e.el)
	return sum, count, true
}

// TransposeOctaves shifts every note in the phrase by the given number of
// octaves, in place.
func (p *Phrase) TransposeOctaves(octaves int) {
	for _, e := range p.entries {
		transposeElement(e.el, octaves)
	}
}

// Positions returns every entry onset, in order.
func (p *Phrase) Positions() []fraction.Fraction {
	positions := make([]fraction.Fraction, len(p.entries))
	for i, e := range p.entries {
		positions[i] = e.pos
	}
	return positions
}

// Each calls fn for every entry in position order.
func (p *Phrase) Each(fn func(pos fraction.Fraction, el Element, dur fraction.Fraction)) {
	for _, e := range p.entries {
		fn(e.pos, e.el, e.dur)
	}
}

// Clone deep-copies the phrase.
func (p *Phrase) Clone() *Phrase {
	c := &Phrase{entries: make([]entry, len(p.entries))}
	for i, e := range p.entries {
		c.entries[i] = entry{pos: e.pos, el: CloneElement(e.el), dur: e.dur}
	}
	return c
}

// Equal reports whether two phrases hold identical entries.
func (p *Phrase) Equal(o *Phrase) bool {
	if len(p.entries) != len(o.entries) {
		return false
	}
	for i, e := range p.entries {
		oe := o.entries[i]
		if e.pos != oe.pos || e.dur != oe.dur || !elementsEqual(e.el, oe.el) {
			return false
		}
	}
	return true
}

func elementsEqual(a, b Element) bool {
	switch ae := a.(type) {
	case *Single:
		be, ok := b.(*Single)
		return ok && ae.Note == be.Note
	case *Chord:
		be, ok := b.(*Chord)
		if !ok || len(ae.Notes) != len(be.Notes) {
			return false
		}
		for i := range ae.Notes {
			if ae.Notes[i] != be.Notes[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
