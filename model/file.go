package model

type FileNum = uint32
type FileNumToMidiPath = map[FileNum]string

// ImportSummary totals a batch import.
type ImportSummary struct {
	Files   int
	Skipped int
	Bars    int
	Voices  int
	Notes   int
	Dropped int
}
