package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/reducely/midi"
	"github.com/jsphweid/reducely/model"
	"github.com/jsphweid/reducely/util"
	"github.com/spf13/cobra"
)

var previewOpts model.Options
var previewOut string

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "output.mid", "output MIDI file")
	bindOptions(previewCmd, &previewOpts)
}

var previewCmd = &cobra.Command{
	Use:   "preview <input.musicxml>",
	Short: "Renders a reduction to MIDI for listening",
	Long:  `Renders a reduction to MIDI for listening`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data := util.ReadFileOrPanic(args[0])
		sl, err := reduceStaveList(data, previewOpts)
		if err != nil {
			panic("Could not reduce score: " + err.Error())
		}

		f, err := os.Create(previewOut)
		if err != nil {
			panic("Could not create output file: " + err.Error())
		}
		defer f.Close()
		if err := midi.Write(sl, f); err != nil {
			panic("Could not write MIDI: " + err.Error())
		}
		fmt.Printf("Wrote %v\n", previewOut)
	},
}
