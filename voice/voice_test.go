package voice

import (
	"fmt"
	"testing"

	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/content"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var of = bartime.MustOf

type key int

func (k key) ComparePitch(other content.Pitch) int {
	return int(k) - int(other.(key))
}

func (k key) String() string { return fmt.Sprint(int(k)) }

func note(t *testing.T, p key, typ content.Type) *content.Note {
	n, err := content.NewNote(content.NoteConfig{Pitch: p, Type: typ})
	require.NoError(t, err)
	return n
}

func newVoice(t *testing.T) *Voice {
	v, err := New(bartime.Whole)
	require.NoError(t, err)
	return v
}

func TestPutPrincipalsTakesLongest(t *testing.T) {
	v := newVoice(t)
	err := v.PutPrincipals(bartime.Zero,
		note(t, 60, content.Quarter),
		note(t, 62, content.Half),
		note(t, 63, content.Eighth),
		note(t, 63, content.Eighth),
	)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Same(bartime.Half, v.Length())
	set, ok := v.Get(bartime.Zero)
	require.True(t, ok)
	assert.Equal(3, set.Len())
	assert.Equal("60-62-63", set.Key())
}

func TestPutPrincipalsIsAllOrNothing(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Half, note(t, 60, content.Quarter)))

	err := v.PutPrincipals(bartime.Quarter, note(t, 62, content.Eighth), note(t, 64, content.Half))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	assert.False(t, v.Has(bartime.Quarter))

	err = v.PutPrincipals(bartime.Half, note(t, 62, content.Eighth), note(t, 64, content.Half))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	set, _ := v.Get(bartime.Half)
	assert.Equal(t, 1, set.Len())
}

func TestLastingAndNextBetweenNotes(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Quarter)))
	require.NoError(t, v.PutPrincipal(bartime.Quarter, note(t, 63, content.Half)))
	require.NoError(t, v.PutPrincipal(bartime.HalfDot, note(t, 62, content.Eighth)))
	require.NoError(t, v.PutPrincipal(of(7, 2), note(t, 62, content.Eighth)))

	assert := assert.New(t)
	assert.Same(bartime.Whole, v.Length())
	assert.Same(of(8, 7), v.Lasting(of(13, 7)))
	assert.Same(of(8, 7), v.Next(of(13, 7)))
	assert.NoError(v.Validate())
}

func TestGapBetweenNotes(t *testing.T) {
	v := newVoice(t)
	quarter := note(t, 60, content.Quarter)
	require.NoError(t, v.PutPrincipal(bartime.Zero, quarter))
	require.NoError(t, v.PutPrincipal(bartime.Half, note(t, 62, content.Half)))

	assert := assert.New(t)
	assert.Same(bartime.Whole, v.Length())
	assert.Same(bartime.Zero, v.Lasting(of(8, 7)))
	assert.Same(of(6, 7), v.Next(of(8, 7)))
	assert.True(v.Fits(bartime.Quarter, quarter))
	assert.False(v.Fits(of(8, 7), quarter))
}

func TestChordJoinsAtOccupiedOffset(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Half, note(t, 60, content.Quarter)))

	require.NoError(t, v.PutPrincipal(bartime.Half, note(t, 64, content.Eighth)))
	set, _ := v.Get(bartime.Half)
	assert.Equal(t, 2, set.Len())
	assert.Same(t, bartime.HalfDot, v.Length())

	err := v.PutPrincipal(bartime.Half, note(t, 67, content.Half))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	assert.Equal(t, 2, set.Len())
}

func TestRepeatedItemIsReported(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Quarter)))
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Eighth)))

	set, _ := v.Get(bartime.Zero)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "60-60", set.Key())

	err := v.PutPrincipal(bartime.Zero, note(t, 60, content.Eighth))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	assert.Equal(t, 2, set.Len())

	err = v.PutPrincipals(bartime.Zero, note(t, 64, content.Eighth), note(t, 60, content.Quarter))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	assert.Equal(t, 2, set.Len())
}

func TestPutPrincipalRejects(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Half)))

	assert.ErrorIs(t, v.PutPrincipal(of(-1, 4), note(t, 60, content.Eighth)), qerrors.ErrInvalidArgument)
	assert.ErrorIs(t, v.PutPrincipal(of(5, 1), note(t, 60, content.Eighth)), qerrors.ErrInvalidArgument)
	assert.ErrorIs(t, v.PutPrincipal(bartime.Quarter, note(t, 60, content.Eighth)), qerrors.ErrConstraintViolation)
	assert.ErrorIs(t, v.PutPrincipal(bartime.HalfDot, note(t, 60, content.Half)), qerrors.ErrConstraintViolation)
	assert.Equal(t, 1, v.Len())
}

func TestOptionalReservesUntilNextChord(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Quarter)))
	require.NoError(t, v.PutOptional(bartime.Quarter, note(t, 60, content.Quarter)))

	assert := assert.New(t)
	assert.Same(bartime.Whole, v.Length())
	set, _ := v.Get(bartime.Quarter)
	assert.Same(bartime.HalfDot, set.Duration())
	assert.Len(set.OptionalList(), 1)
	assert.Len(v.Chords(), 1)

	require.NoError(t, v.PutPrincipal(bartime.Quarter, note(t, 62, content.Eighth)))
	assert.Same(bartime.QuarterDot, v.Length())
	assert.Same(bartime.Eighth, set.Duration())
	assert.Len(set.OptionalList(), 1)
	assert.Len(v.Chords(), 2)
}

func TestOptionalOnExistingChord(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Half)))
	require.NoError(t, v.PutOptional(bartime.Zero, note(t, 59, content.Sixteenth)))
	require.NoError(t, v.PutOptional(bartime.Zero, note(t, 58, content.Sixteenth)))

	set, _ := v.Get(bartime.Zero)
	deco := set.OptionalList()
	require.Len(t, deco, 2)
	assert.Equal(t, "59", deco[0].Key())
	assert.Equal(t, "58", deco[1].Key())
	assert.Same(t, bartime.Half, v.Length())
}

func TestOptionalWhileChordSounds(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Half)))

	err := v.PutOptional(bartime.Quarter, note(t, 62, content.Sixteenth))
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	assert.ErrorIs(t, v.PutOptional(of(9, 2), note(t, 62, content.Sixteenth)), qerrors.ErrInvalidArgument)
	assert.Equal(t, 1, v.Len())
}

func TestOptionalAtCapacityReservesNothing(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutOptional(bartime.Whole, note(t, 62, content.Sixteenth)))
	set, ok := v.Get(bartime.Whole)
	require.True(t, ok)
	assert.Same(t, bartime.Zero, set.Duration())
	assert.Same(t, bartime.Whole, v.Length())
}

func TestString(t *testing.T) {
	v := newVoice(t)
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 60, content.Quarter)))
	require.NoError(t, v.PutPrincipal(bartime.Zero, note(t, 64, content.Quarter)))
	require.NoError(t, v.PutOptional(bartime.Half, note(t, 62, content.Sixteenth)))
	assert.Equal(t, "0/1:60-64(1/1) 2/1:rest(2/1)", v.String())
	assert.NotEqual(t, v.ID, newVoice(t).ID)
}
