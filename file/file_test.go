package file

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/midi"
	"github.com/jsphweid/quint/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// writeScale writes four quarter notes in 2/4, so two bars.
func writeScale(t *testing.T, path string) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(2, 4))
	for _, key := range []uint8{60, 62, 64, 65} {
		tr.Add(0, gomidi.NoteOn(0, key, 100))
		tr.Add(480, gomidi.NoteOff(0, key))
	}
	tr.Close(0)
	require.NoError(t, s.Add(tr))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func placeConfig() midi.PlaceConfig {
	return midi.PlaceConfig{Capacity: bartime.Whole, MaxVoices: 2}
}

func TestCreateFileNumMap(t *testing.T) {
	m := CreateFileNumMap([]string{"a.mid", "b.mid"})
	assert.Equal(t, model.FileNumToMidiPath{0: "a.mid", 1: "b.mid"}, m)
}

func TestImportFileUsesFileMeter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scale.mid")
	writeScale(t, path)

	score, err := ImportFile(path, placeConfig())
	require.NoError(t, err)
	require.Len(t, score.Bars, 2)
	assert.Same(t, bartime.Half, score.Bars[0].Capacity())
	assert.Equal(t, 4, score.Notes())
}

func TestImportAllSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "scale.mid")
	writeScale(t, good)
	bad := filepath.Join(dir, "broken.mid")
	require.NoError(t, os.WriteFile(bad, []byte("MThd"), 0o644))

	summary := ImportAll(CreateFileNumMap([]string{good, bad}), placeConfig())
	assert.Equal(t, model.ImportSummary{
		Files:   1,
		Skipped: 1,
		Bars:    2,
		Voices:  2,
		Notes:   4,
	}, summary)
}
