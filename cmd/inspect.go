package cmd

import (
	"fmt"

	"github.com/jsphweid/reducely/bars"
	"github.com/jsphweid/reducely/fraction"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/musicxml"
	"github.com/jsphweid/reducely/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.musicxml>",
	Short: "Inspects a score",
	Long:  `Inspects a score`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	data := util.ReadFileOrPanic(path)
	pl, err := musicxml.Parse(data, 0)
	if err != nil {
		panic("Could not parse score: " + err.Error())
	}

	fmt.Printf("phrases: %v\n", len(pl.Phrases))
	min, max := 0, 0
	seen := false
	end := fraction.Zero()
	for _, p := range pl.Phrases {
		if p.Len() == 0 {
			continue
		}
		if !seen || p.MinVal() < min {
			min = p.MinVal()
		}
		if !seen || p.MaxVal() > max {
			max = p.MaxVal()
		}
		seen = true
		if end.Less(p.End()) {
			end = p.End()
		}
	}
	fmt.Printf("pitch range: %v to %v\n", min, max)
	fmt.Printf("length: %v quarter notes\n", end)
	if _, ok := pl.Times.At(fraction.Zero()); ok && fraction.Zero().Less(end) {
		bn := bars.New(&pl.Times)
		fmt.Printf("bars: %v\n", bn.BarNumber(end.Sub(fraction.New(1, 1024)))+1)
	}
	pl.Keys.Each(func(pos fraction.Fraction, fifths int) {
		fmt.Printf("key at %v: %v fifths\n", pos, fifths)
	})
	pl.Times.Each(func(pos fraction.Fraction, sig model.TimeSig) {
		fmt.Printf("time at %v: %v\n", pos, sig)
	})
}
