// Package bars maps between absolute positions (in quarter notes) and bar
// numbers, across any number of time signature changes.
package bars

import (
	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
)

type segment struct {
	start    fraction.Fraction
	firstBar int
	sig      model.TimeSig
}

// BarNumbers is built once from a score's time signature changes. Bar
// numbers are cumulative: a segment's first bar continues the count of the
// segment before it.
type BarNumbers struct {
	segments []segment
}

// New builds the bar map. The time map must have a signature at position
// zero; callers validate that before decoding anything.
func New(times *model.SigMap[model.TimeSig]) *BarNumbers {
	b := &BarNumbers{}
	bar := 0
	var prev segment
	times.Each(func(pos fraction.Fraction, sig model.TimeSig) {
		if len(b.segments) > 0 {
			bar += pos.Sub(prev.start).Div(barLength(prev.sig)).Whole()
		}
		prev = segment{start: pos, firstBar: bar, sig: sig}
		b.segments = append(b.segments, prev)
	})
	if len(b.segments) == 0 || !b.segments[0].start.IsZero() {
		panic("bars: no time signature at position zero")
	}
	return b
}

func barLength(sig model.TimeSig) fraction.Fraction {
	return fraction.New(sig.Beats*4, sig.BeatType)
}

// segmentAt returns the segment containing pos.
func (b *BarNumbers) segmentAt(pos fraction.Fraction) (segment, int) {
	i := len(b.segments) - 1
	for i > 0 && pos.Less(b.segments[i].start) {
		i--
	}
	return b.segments[i], i
}

// BarNumber returns the zero-based bar containing pos.
func (b *BarNumbers) BarNumber(pos fraction.Fraction) int {
	seg, _ := b.segmentAt(pos)
	return seg.firstBar + pos.Sub(seg.start).Div(barLength(seg.sig)).Whole()
}

// Start returns the position at which a bar begins.
func (b *BarNumbers) Start(bar int) fraction.Fraction {
	i := len(b.segments) - 1
	for i > 0 && bar < b.segments[i].firstBar {
		i--
	}
	seg := b.segments[i]
	return seg.start.Add(fraction.New(bar-seg.firstBar, 1).Mul(barLength(seg.sig)))
}

// Length returns a bar's duration in quarter notes.
func (b *BarNumbers) Length(bar int) fraction.Fraction {
	i := len(b.segments) - 1
	for i > 0 && bar < b.segments[i].firstBar {
		i--
	}
	return barLength(b.segments[i].sig)
}

// Time returns the signature in effect during a bar.
func (b *BarNumbers) Time(bar int) model.TimeSig {
	i := len(b.segments) - 1
	for i > 0 && bar < b.segments[i].firstBar {
		i--
	}
	return b.segments[i].sig
}

// CrossesBar reports whether a note starting at pos with the given duration
// runs past the next bar boundary, and if so where that boundary is.
func (b *BarNumbers) CrossesBar(pos, dur fraction.Fraction) (fraction.Fraction, bool) {
	seg, i := b.segmentAt(pos)
	within := pos.Sub(seg.start).Div(barLength(seg.sig)).Whole()
	boundary := seg.start.Add(fraction.New(within+1, 1).Mul(barLength(seg.sig)))
	if i+1 < len(b.segments) && b.segments[i+1].start.Less(boundary) {
		boundary = b.segments[i+1].start
	}
	if boundary.Less(pos.Add(dur)) {
		return boundary, true
	}
	return fraction.Zero(), false
}
