package file

import (
	"fmt"

	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/midi"
	"github.com/jsphweid/quint/model"
	"github.com/jsphweid/quint/util"
)

func CreateFileNumMap(paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// ImportFile reads path and places its notes into bars. The file's own
// time signatures replace cfg.Meters.
func ImportFile(path string, cfg midi.PlaceConfig) (*midi.Score, error) {
	parsed, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	events, err := midi.Events(parsed)
	if err != nil {
		return nil, err
	}
	cfg.Meters, err = midi.Meters(parsed)
	if err != nil {
		return nil, err
	}
	return midi.Place(events, cfg)
}

// ImportAll imports every file in file number order. Files that fail are
// skipped and counted.
func ImportAll(m model.FileNumToMidiPath, cfg midi.PlaceConfig) model.ImportSummary {
	var summary model.ImportSummary
	keys := util.GetSortedKeys(m)
	for i, num := range keys {
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))
		score, err := ImportFile(m[num], cfg)
		if err != nil {
			if code, ok := qerrors.CodeOf(err); ok {
				fmt.Printf("Skipping %v (%v) because: %v\n", m[num], code, err)
			} else {
				fmt.Printf("Skipping %v because: %v\n", m[num], err)
			}
			summary.Skipped += 1
			continue
		}
		summary.Files += 1
		summary.Bars += len(score.Bars)
		for _, bar := range score.Bars {
			summary.Voices += len(bar.Voices)
		}
		summary.Notes += score.Notes()
		summary.Dropped += len(score.Dropped)
	}
	return summary
}
