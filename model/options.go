package model

import (
	"fmt"

	"github.com/jsphweid/reducely/constants"
)

// Options are the knobs of a reduction run.
type Options struct {
	Staves          int
	Handspan        int
	MergeByAverage  bool
	NoMerge         bool
	NoAdjustOctaves bool

	// PhraseLimit is the maximum phrase length, in bars, that the decoder
	// will accumulate before starting a new phrase. Zero means no limit.
	PhraseLimit int
}

func DefaultOptions() Options {
	return Options{
		Staves:      constants.DefaultStaves,
		Handspan:    constants.DefaultHandspan,
		PhraseLimit: constants.DefaultPhraseLimit,
	}
}

func (o Options) Validate() error {
	if o.Staves < 1 {
		return fmt.Errorf("staves must be at least 1, got %v", o.Staves)
	}
	if o.Handspan < constants.MinHandspan {
		return fmt.Errorf("handspan must be at least %v, got %v", constants.MinHandspan, o.Handspan)
	}
	if o.PhraseLimit < 0 {
		return fmt.Errorf("max phrase length cannot be negative, got %v", o.PhraseLimit)
	}
	return nil
}
