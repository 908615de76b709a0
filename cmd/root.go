package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reducely",
	Short: "Reduces orchestral MusicXML scores to keyboard arrangements",
	Long:  `Reduces orchestral MusicXML scores to keyboard arrangements`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
