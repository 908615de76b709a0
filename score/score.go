// Package score holds the decoded form of a score and the reduction passes
// that rearrange it onto a fixed number of staves.
package score

import (
	"github.com/jsphweid/reducely/constants"
	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/phrase"
	"github.com/jsphweid/reducely/util"
	"golang.org/x/exp/slices"
)

// PhraseList is a decoded score: every phrase of every part, flattened, plus
// the key and time signature changes shared by all of them.
type PhraseList struct {
	Phrases []*phrase.Phrase
	Keys    model.SigMap[int]
	Times   model.SigMap[model.TimeSig]
}

// StaveList is the reduced form: phrases assigned to staves, top stave
// first. Dropped counts phrases discarded because no stave could hold them.
type StaveList struct {
	Staves  [][]*phrase.Phrase
	Keys    model.SigMap[int]
	Times   model.SigMap[model.TimeSig]
	Dropped int
}

func sortPhrasesByStart(phrases []*phrase.Phrase) {
	slices.SortFunc(phrases, func(a, b *phrase.Phrase) bool {
		if a.Len() == 0 || b.Len() == 0 {
			return b.Len() != 0
		}
		return a.Start().Less(b.Start())
	})
}

// DistributeStaves allocates every phrase to the stave whose midpoint pitch
// is nearest the phrase's opening mean. Midpoints divide the score's pitch
// range at the phrase's start into staves+1 even slices.
func (pl *PhraseList) DistributeStaves(staves int) *StaveList {
	sortPhrasesByStart(pl.Phrases)
	newStaves := make([][]*phrase.Phrase, staves)

	for _, p := range pl.Phrases {
		if p.Len() == 0 {
			continue
		}
		start := p.Start()
		sum, count := phrase.MeanParts(p.First())
		startMean := sum / count

		max, min, ok := pl.rangeAt(start)
		if !ok {
			continue
		}

		splitSize := (max - min) / (staves + 1)
		best, bestDist := 0, -1
		for idx := 0; idx < staves; idx++ {
			midpoint := (staves-idx)*splitSize + min
			dist := util.Abs(startMean - midpoint)
			if bestDist < 0 || dist < bestDist {
				best, bestDist = idx, dist
			}
		}
		newStaves[best] = append(newStaves[best], p.Clone())
	}

	return &StaveList{Staves: newStaves, Keys: pl.Keys, Times: pl.Times}
}

// MergeByAverage folds every phrase directly into one phrase per stave,
// allocating each to the stave whose running average pitch is nearest and
// updating that average to the phrase's own mean.
func (pl *PhraseList) MergeByAverage(staves int) *StaveList {
	sortPhrasesByStart(pl.Phrases)

	max, min := 96, 9
	if mx, mn, ok := pl.rangeAt(fraction.Zero()); ok {
		max, min = mx, mn
	}
	splitSize := (max - min) / (staves + 1)
	averages := make([]int, staves)
	for idx := 0; idx < staves; idx++ {
		averages[idx] = (staves-idx)*splitSize + min
	}

	merged := make([][]*phrase.Phrase, staves)
	for idx := range merged {
		merged[idx] = []*phrase.Phrase{phrase.New()}
	}
	for _, p := range pl.Phrases {
		if p.Len() == 0 {
			continue
		}
		sum, count := phrase.MeanParts(p.First())
		startMean := sum / count
		best, bestDist := 0, -1
		for idx, avg := range averages {
			dist := util.Abs(startMean - avg)
			if bestDist < 0 || dist < bestDist {
				best, bestDist = idx, dist
			}
		}
		averages[best] = p.Mean()
		merged[best][0].Merge(p)
	}

	return &StaveList{Staves: merged, Keys: pl.Keys, Times: pl.Times}
}

// rangeAt returns the highest and lowest pitch sounding at pos across every
// phrase in the list.
func (pl *PhraseList) rangeAt(pos fraction.Fraction) (max, min int, ok bool) {
	for _, p := range pl.Phrases {
		if v, covered := p.MaxAt(pos); covered {
			if !ok || v > max {
				max = v
			}
			if m, _ := p.MinAt(pos); !ok || m < min {
				min = m
			}
			ok = true
		}
	}
	return max, min, ok
}

// canHavePhrase reports whether adding the phrase to the stave keeps the
// stave's total spread within the handspan at every onset of the phrase.
func canHavePhrase(stave []*phrase.Phrase, p *phrase.Phrase, handspan int) bool {
	for _, position := range p.Positions() {
		staveMax, staveMin, ok := staveRangeAt(stave, position)
		if !ok {
			continue
		}
		phraseMax, _ := p.MaxAt(position)
		phraseMin, _ := p.MinAt(position)
		if util.Max(staveMax, phraseMax)-util.Min(staveMin, phraseMin) > handspan {
			return false
		}
	}
	return true
}

func staveRangeAt(stave []*phrase.Phrase, pos fraction.Fraction) (max, min int, ok bool) {
	for _, p := range stave {
		if v, covered := p.MaxAt(pos); covered {
			if !ok || v > max {
				max = v
			}
			if m, _ := p.MinAt(pos); !ok || m < min {
				min = m
			}
			ok = true
		}
	}
	return max, min, ok
}

// maxPhraseAt returns the index and pitch of the phrase sounding the highest
// note at pos. Later phrases win ties.
func maxPhraseAt(stave []*phrase.Phrase, pos fraction.Fraction) (idx, val int, ok bool) {
	for i, p := range stave {
		if v, covered := p.MaxAt(pos); covered && (!ok || v >= val) {
			idx, val, ok = i, v, true
		}
	}
	return idx, val, ok
}

// minPhraseAt returns the index and pitch of the phrase sounding the lowest
// note at pos. Earlier phrases win ties.
func minPhraseAt(stave []*phrase.Phrase, pos fraction.Fraction) (idx, val int, ok bool) {
	for i, p := range stave {
		if v, covered := p.MinAt(pos); covered && (!ok || v < val) {
			idx, val, ok = i, v, true
		}
	}
	return idx, val, ok
}

func meanAt(stave []*phrase.Phrase, pos fraction.Fraction) int {
	var total, count int
	for _, p := range stave {
		if sum, n, ok := p.MeanAt(pos); ok {
			total += sum
			count += n
		}
	}
	return total / count
}

// othersMaxAt returns the highest pitch at pos among phrases whose own
// maximum there differs from val.
func othersMaxAt(stave []*phrase.Phrase, pos fraction.Fraction, val int) (int, bool) {
	var best int
	var ok bool
	for _, p := range stave {
		if v, covered := p.MaxAt(pos); covered && v != val && (!ok || v > best) {
			best, ok = v, true
		}
	}
	return best, ok
}

func othersMinAt(stave []*phrase.Phrase, pos fraction.Fraction, val int) (int, bool) {
	var best int
	var ok bool
	for _, p := range stave {
		if v, covered := p.MinAt(pos); covered && v != val && (!ok || v < best) {
			best, ok = v, true
		}
	}
	return best, ok
}

func removePhrase(stave []*phrase.Phrase, i int) (*phrase.Phrase, []*phrase.Phrase) {
	p := stave[i]
	return p, append(stave[:i], stave[i+1:]...)
}

// stavePositions returns the union of every entry onset across a stave's
// phrases, sorted and deduplicated.
func stavePositions(stave []*phrase.Phrase) []fraction.Fraction {
	var positions []fraction.Fraction
	for _, p := range stave {
		positions = append(positions, p.Positions()...)
	}
	slices.SortFunc(positions, func(a, b fraction.Fraction) bool {
		return a.Less(b)
	})
	return slices.Compact(positions)
}

// AdjustOctaves reworks each stave until the spread of pitches sounding at
// any onset fits within the handspan. In order it tries: moving the highest
// phrase up a stave, transposing the highest phrase down an octave, moving
// the lowest phrase down a stave, transposing the lowest phrase up an
// octave, and as a last resort dropping a phrase (the highest on the top
// stave, the lowest elsewhere).
func (sl *StaveList) AdjustOctaves(handspan int) {
	numStaves := len(sl.Staves)
	for i := 0; i < numStaves; i++ {
		sortPhrasesByStart(sl.Staves[i])
		positions := stavePositions(sl.Staves[i])

		for _, position := range positions {
			for {
				stave := sl.Staves[i]
				maxPhrase, maxVal, ok := maxPhraseAt(stave, position)
				if !ok {
					break
				}
				minPhrase, minVal, _ := minPhraseAt(stave, position)
				if maxVal-minVal <= handspan {
					break
				}
				mean := meanAt(stave, position)
				midpoint := (minVal + maxVal) / 2

				if i > 0 && canHavePhrase(sl.Staves[i-1], stave[maxPhrase], handspan) {
					var moved *phrase.Phrase
					moved, sl.Staves[i] = removePhrase(stave, maxPhrase)
					sl.Staves[i-1] = append(sl.Staves[i-1], moved)
					continue
				}

				otherMax, hasOtherMax := othersMaxAt(stave, position, maxVal)
				otherMin, hasOtherMin := othersMinAt(stave, position, minVal)

				canLower := mean < midpoint &&
					(i != 0 || !hasOtherMax || maxVal-12 >= otherMax) &&
					stave[maxPhrase].MinVal() >= constants.PitchFloor+constants.MinHandspan &&
					(i != numStaves-1 || maxVal-12 >= minVal)
				canRaise := (i != numStaves-1 || !hasOtherMin || minVal+12 <= otherMin) &&
					stave[minPhrase].MaxVal() <= constants.PitchCeiling-constants.MinHandspan &&
					(i != 0 || minVal+12 <= maxVal)

				switch {
				case canLower:
					stave[maxPhrase].TransposeOctaves(-1)
				case i < numStaves-1 && canHavePhrase(sl.Staves[i+1], stave[minPhrase], handspan):
					var moved *phrase.Phrase
					moved, sl.Staves[i] = removePhrase(stave, minPhrase)
					sl.Staves[i+1] = append(sl.Staves[i+1], moved)
				case canRaise:
					stave[minPhrase].TransposeOctaves(1)
				case i == 0:
					// nothing fits: the top stave sheds its highest phrase
					_, sl.Staves[i] = removePhrase(stave, maxPhrase)
					sl.Dropped++
				default:
					_, sl.Staves[i] = removePhrase(stave, minPhrase)
					sl.Dropped++
				}
			}
		}
	}
}

// Merge folds every stave's phrases into a single phrase per stave.
func (sl *StaveList) Merge() {
	for i, stave := range sl.Staves {
		merged := phrase.New()
		for _, p := range stave {
			merged.Merge(p)
		}
		sl.Staves[i] = []*phrase.Phrase{merged}
	}
}
