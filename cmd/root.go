package cmd

import (
	"github.com/jsphweid/quint/constants"
	"github.com/spf13/cobra"
)

var cfg constants.Config

var rootCmd = &cobra.Command{
	Use:   "quint",
	Short: "Places notes into bars",
	Long: `Places notes, chords and grace notes into the voices of a bar
without overlaps, using exact rational bar times.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = constants.Load()
		return err
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
