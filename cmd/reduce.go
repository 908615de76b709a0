package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/reducely/constants"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/musicxml"
	"github.com/jsphweid/reducely/score"
	"github.com/jsphweid/reducely/util"
	"github.com/spf13/cobra"
)

var reduceOpts model.Options
var reduceOut string

func init() {
	rootCmd.AddCommand(reduceCmd)
	reduceCmd.Flags().StringVarP(&reduceOut, "out", "o", constants.DefaultOutput, "output MusicXML file")
	bindOptions(reduceCmd, &reduceOpts)
}

// bindOptions registers the shared reduction flags on a command.
func bindOptions(c *cobra.Command, o *model.Options) {
	c.Flags().IntVarP(&o.Staves, "staves", "s", constants.DefaultStaves, "number of staves in the output")
	c.Flags().IntVar(&o.Handspan, "handspan", constants.DefaultHandspan, "maximum stretch within a stave, in semitones")
	c.Flags().BoolVarP(&o.MergeByAverage, "merge-by-average", "a", false, "allocate phrases by running stave averages instead of midpoints")
	c.Flags().BoolVar(&o.NoMerge, "no-merge", false, "keep phrases separate in the output")
	c.Flags().BoolVar(&o.NoAdjustOctaves, "no-adjust-octaves", false, "skip octave adjustment")
	c.Flags().IntVarP(&o.PhraseLimit, "max-phrase-length", "l", constants.DefaultPhraseLimit, "maximum phrase length in bars, 0 for no maximum")
}

var reduceCmd = &cobra.Command{
	Use:   "reduce <input.musicxml>",
	Short: "Reduces a score",
	Long:  `Reduces a score`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data := util.ReadFileOrPanic(args[0])
		out, dropped, err := Reduce(data, reduceOpts)
		if err != nil {
			panic("Could not reduce score: " + err.Error())
		}
		if dropped > 0 {
			fmt.Printf("Dropped %v phrases that no stave could hold\n", dropped)
		}
		if err := os.WriteFile(reduceOut, out, 0644); err != nil {
			panic("Could not write output file: " + err.Error())
		}
		fmt.Printf("Wrote %v\n", reduceOut)
	},
}

// Reduce runs the whole pipeline on raw MusicXML bytes and returns the
// reduced MusicXML plus the number of phrases dropped along the way.
func Reduce(data []byte, opts model.Options) ([]byte, int, error) {
	sl, err := reduceStaveList(data, opts)
	if err != nil {
		return nil, 0, err
	}
	out, err := musicxml.Write(sl)
	if err != nil {
		return nil, 0, err
	}
	return out, sl.Dropped, nil
}

func reduceStaveList(data []byte, opts model.Options) (*score.StaveList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pl, err := musicxml.Parse(data, opts.PhraseLimit)
	if err != nil {
		return nil, err
	}

	var sl *score.StaveList
	if opts.MergeByAverage {
		sl = pl.MergeByAverage(opts.Staves)
	} else {
		sl = pl.DistributeStaves(opts.Staves)
		if !opts.NoAdjustOctaves {
			sl.AdjustOctaves(opts.Handspan)
		}
	}
	if !opts.NoMerge {
		sl.Merge()
	}
	return sl, nil
}
