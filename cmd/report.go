package cmd

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/file"
	"github.com/jsphweid/quint/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir] [maxNum]",
	Short: "Imports a directory of midi files and reports totals",
	Long: `Imports every .mid and .midi file under dir (QUINT_MEDIA_PATH by
default), up to maxNum files, and reports how they were placed.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.GetMediaDir()
		if len(args) > 0 {
			dir = args[0]
		}
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = n
		}
		return report(cmd, dir, maxNum)
	},
}

func report(cmd *cobra.Command, dir string, maxNum int) error {
	placeCfg, err := placeConfig(0)
	if err != nil {
		return err
	}
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return err
	}
	summary := file.ImportAll(file.CreateFileNumMap(paths), placeCfg)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "files: %v\n", summary.Files)
	fmt.Fprintf(w, "skipped: %v\n", summary.Skipped)
	fmt.Fprintf(w, "bars: %v\n", summary.Bars)
	fmt.Fprintf(w, "voices: %v\n", summary.Voices)
	fmt.Fprintf(w, "notes: %v\n", summary.Notes)
	fmt.Fprintf(w, "dropped: %v\n", summary.Dropped)
	if summary.Bars > 0 {
		fmt.Fprintf(w, "voices per bar: %.2f\n", float64(summary.Voices)/float64(summary.Bars))
	}
	fmt.Fprintf(w, "interned bar times: %v\n", bartime.PoolSize())
	return nil
}
