package model

import "github.com/jsphweid/quint/bartime"

// NoteEvent is a sounding note reduced from a MIDI track. Times are in
// quarter notes from the start of the file.
type NoteEvent struct {
	Offset   *bartime.Time
	Duration *bartime.Time
	Key      uint8
	Channel  uint8
	Velocity uint8
	Track    int
}

// Meter is a time signature change expressed as the bar capacity it sets.
type Meter struct {
	Offset   *bartime.Time
	Capacity *bartime.Time
}
