package midi

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jsphweid/quint/content"
	qerrors "github.com/jsphweid/quint/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = qerrors.New(qerrors.CodeInvalidArgument, fmt.Sprintf("Error parsing midi file %s... %v", filepath, r))
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("Error reading midi file... %w", err)
	}
	return Read(dat)
}

// Read parses an in-memory standard MIDI file.
func Read(dat []byte) (*smf.SMF, error) {
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, qerrors.Wrap(qerrors.CodeInvalidArgument, "Error parsing midi file... "+err.Error(), err)
	}
	return res, nil
}

// Key is a MIDI key number used as a pitch.
type Key uint8

// ComparePitch orders keys by number. Pitches of other types are ordered
// by type name, so they never compare equal to a Key.
func (k Key) ComparePitch(other content.Pitch) int {
	o, ok := other.(Key)
	if !ok {
		return strings.Compare(fmt.Sprintf("%T", k), fmt.Sprintf("%T", other))
	}
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	}
	return 0
}

func (k Key) String() string {
	return fmt.Sprintf("%v", uint8(k))
}
