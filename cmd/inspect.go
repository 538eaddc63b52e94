package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/quint/constants"
	"github.com/jsphweid/quint/file"
	"github.com/jsphweid/quint/midi"
	"github.com/spf13/cobra"
)

var (
	inspectExport    string
	inspectMaxVoices int
)

func init() {
	inspectCmd.Flags().StringVar(&inspectExport, "export", "", "write the placed bars to this midi file")
	inspectCmd.Flags().IntVar(&inspectMaxVoices, "max-voices", 0, "voices per bar, defaults to QUINT_MAX_VOICES")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect file.mid",
	Short: "Inspects how a midi file is placed into bars",
	Long:  `Places a midi file into bars and voices and prints every chord.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		placeCfg, err := placeConfig(inspectMaxVoices)
		if err != nil {
			return err
		}
		score, err := file.ImportFile(args[0], placeCfg)
		if err != nil {
			return err
		}
		printScore(cmd.OutOrStdout(), score)
		if inspectExport == "" {
			return nil
		}
		f, err := os.Create(inspectExport)
		if err != nil {
			return err
		}
		defer f.Close()
		return midi.Export(score, constants.DefaultResolution, f)
	},
}

func placeConfig(maxVoices int) (midi.PlaceConfig, error) {
	capacity, err := cfg.Capacity()
	if err != nil {
		return midi.PlaceConfig{}, err
	}
	if maxVoices == 0 {
		maxVoices = cfg.MaxVoices
	}
	return midi.PlaceConfig{Capacity: capacity, MaxVoices: maxVoices}, nil
}

func printScore(w io.Writer, score *midi.Score) {
	for _, bar := range score.Bars {
		fmt.Fprintf(w, "bar %v at %v (capacity %v)\n", bar.Number, bar.Offset, bar.Capacity())
		for i, v := range bar.Voices {
			fmt.Fprintf(w, "  voice %v [%v] fill %v: %v\n", i+1, v.ID.String()[:8], v.Fill(), v)
		}
	}
	fmt.Fprintf(w, "notes: %v\n", score.Notes())
	fmt.Fprintf(w, "dropped: %v\n", len(score.Dropped))
}
