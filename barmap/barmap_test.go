package barmap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var of = bartime.MustOf

func newWholeBar(t *testing.T) *Map[*bartime.Time] {
	m, err := New[*bartime.Time](bartime.Whole)
	require.NoError(t, err)
	return m
}

// halfAndEighth is a whole-note bar holding an eighth on beat three.
func halfAndEighth(t *testing.T) *Map[*bartime.Time] {
	m := newWholeBar(t)
	_, _, err := m.Put(bartime.Half, bartime.Eighth)
	require.NoError(t, err)
	return m
}

func TestZeroLength(t *testing.T) {
	m := newWholeBar(t)
	assert.Same(t, bartime.Whole, m.Capacity())
	assert.Same(t, bartime.Zero, m.Length())
	assert.Equal(t, 0, m.Len())
}

func TestNewRejectsNegativeCapacity(t *testing.T) {
	_, err := New[*bartime.Time](of(-1, 2))
	assert.ErrorIs(t, err, qerrors.ErrInvalidArgument)
	_, err = New[*bartime.Time](nil)
	assert.ErrorIs(t, err, qerrors.ErrInvalidArgument)
}

func TestHalfAndEighthScenario(t *testing.T) {
	m := halfAndEighth(t)

	assert := assert.New(t)
	assert.Same(bartime.Whole, m.Capacity())
	assert.Same(of(5, 2), m.Length())
	assert.Same(bartime.QuarterDot, m.Next(bartime.Eighth))
	assert.Same(of(7, 4), m.Next(of(9, 4)))
	assert.Same(of(1, 4), m.Lasting(of(9, 4)))
	assert.Same(bartime.Zero, m.Lasting(of(11, 4)))
	assert.Same(bartime.Zero, m.Lasting(of(5, 2)))
	assert.True(m.Fits(bartime.QuarterDot, bartime.Eighth))
	assert.False(m.Fits(bartime.QuarterDot, bartime.EighthDot))
	assert.True(m.Fits(of(5, 2), bartime.QuarterDot))
	assert.False(m.Fits(of(5, 2), bartime.Half))
	assert.False(m.Fits(of(-1, 2), bartime.Half))
	assert.Same(of(5, 8), m.Fill())
}

func TestFitsFalseWhileItemSounds(t *testing.T) {
	m := newWholeBar(t)
	_, _, err := m.Put(bartime.Half, bartime.Quarter)
	require.NoError(t, err)
	assert.False(t, m.Fits(of(5, 2), bartime.EighthDot))
}

func TestLastingAndNextOnEmptyMap(t *testing.T) {
	m := newWholeBar(t)
	assert.Same(t, bartime.Zero, m.Lasting(bartime.Half))
	assert.Same(t, bartime.Half, m.Next(bartime.Half))
}

func TestPutErrors(t *testing.T) {
	m := halfAndEighth(t)

	_, _, err := m.Put(of(-1, 2), bartime.Eighth)
	assert.ErrorIs(t, err, qerrors.ErrInvalidArgument)

	_, _, err = m.Put(of(9, 2), bartime.Zero)
	assert.ErrorIs(t, err, qerrors.ErrInvalidArgument)

	_, _, err = m.Put(of(9, 4), bartime.Sixteenth)
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)

	_, _, err = m.Put(bartime.QuarterDot, bartime.EighthDot)
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)

	_, _, err = m.Put(bartime.Zero, of(-1, 4))
	assert.ErrorIs(t, err, qerrors.ErrInvalidArgument)

	// rejected puts leave the map as it was
	assert.Equal(t, 1, m.Len())
	assert.Same(t, of(5, 2), m.Length())
}

func TestPutReplacesExistingKey(t *testing.T) {
	m := halfAndEighth(t)

	prev, replaced, err := m.Put(bartime.Half, bartime.Quarter)
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Same(t, bartime.Eighth, prev)
	assert.Same(t, bartime.Whole.Sub(bartime.Quarter), m.Length())

	// replacing still respects the right neighbour
	_, _, err = m.Put(bartime.Whole.Sub(bartime.Quarter), bartime.Quarter)
	require.NoError(t, err)
	_, _, err = m.Put(bartime.Half, bartime.Half)
	assert.ErrorIs(t, err, qerrors.ErrConstraintViolation)
	got, _ := m.Get(bartime.Half)
	assert.Same(t, bartime.Quarter, got)
}

func TestZeroDurationIgnoresHeadroom(t *testing.T) {
	m := newWholeBar(t)
	_, _, err := m.Put(bartime.Whole, bartime.Zero)
	require.NoError(t, err)
	assert.True(t, m.Fits(bartime.Whole, bartime.Zero))
	assert.Same(t, bartime.Whole, m.Length())
}

func TestRemoveReopensInterval(t *testing.T) {
	m := halfAndEighth(t)
	assert.False(t, m.Fits(bartime.Zero, bartime.Whole))

	prev, ok := m.Remove(bartime.Half)
	assert.True(t, ok)
	assert.Same(t, bartime.Eighth, prev)
	assert.True(t, m.Fits(bartime.Zero, bartime.Whole))

	_, ok = m.Remove(bartime.Half)
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	m := newWholeBar(t)
	for _, off := range []*bartime.Time{bartime.Half, bartime.Zero, bartime.HalfDot} {
		_, _, err := m.Put(off, bartime.Eighth)
		require.NoError(t, err)
	}

	assert := assert.New(t)
	assert.Equal([]*bartime.Time{bartime.Zero, bartime.Half, bartime.HalfDot}, m.Keys())

	lower, ok := m.LowerEntry(bartime.Half)
	assert.True(ok)
	assert.Same(bartime.Zero, lower.Offset)

	higher, ok := m.HigherEntry(bartime.Half)
	assert.True(ok)
	assert.Same(bartime.HalfDot, higher.Offset)

	_, ok = m.LowerEntry(bartime.Zero)
	assert.False(ok)
	_, ok = m.HigherEntry(bartime.HalfDot)
	assert.False(ok)

	first, _ := m.First()
	last, _ := m.Last()
	assert.Same(bartime.Zero, first.Offset)
	assert.Same(of(7, 2), last.End())
	assert.True(m.Has(bartime.Half))
	assert.False(m.Has(bartime.Quarter))

	var visited []*bartime.Time
	m.Each(func(offset *bartime.Time, _ *bartime.Time) bool {
		visited = append(visited, offset)
		return len(visited) < 2
	})
	assert.Len(visited, 2)
}

// TestPackingInvariantUnderRandomPuts checks that any sequence of accepted
// puts leaves disjoint intervals inside the capacity, and that Put succeeds
// exactly when Fits said so.
func TestPackingInvariantUnderRandomPuts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	durations := []*bartime.Time{
		bartime.Zero, bartime.Sixteenth, bartime.Eighth, bartime.EighthDot,
		bartime.Quarter, of(1, 3), of(2, 3), bartime.Half,
	}

	for round := 0; round < 50; round++ {
		m := newWholeBar(t)
		for i := 0; i < 40; i++ {
			offset := of(int64(rng.Intn(30)-2), int64(rng.Intn(6)+1))
			d := durations[rng.Intn(len(durations))]

			fits := m.Fits(offset, d)
			_, _, err := m.Put(offset, d)
			require.Equal(t, fits, err == nil, "put %v at %v", d, offset)

			if rng.Intn(8) == 0 && m.Len() > 0 {
				m.Remove(m.Keys()[rng.Intn(m.Len())])
			}
		}

		require.NoError(t, m.Validate())
		entries := m.Entries()
		for i, a := range entries {
			assert.True(t, a.End().LessOrEqual(bartime.Whole))
			for j, b := range entries {
				if i == j {
					continue
				}
				overlap := a.Offset.Less(b.End()) && b.Offset.Less(a.End())
				assert.False(t, overlap, "%v+%v overlaps %v+%v", a.Offset, a.Value, b.Offset, b.Value)
			}
		}
	}
}

func TestOverflowIsReportedNotWrapped(t *testing.T) {
	m := newWholeBar(t)
	huge := of(1, math.MaxInt64)

	// 4 - 1/MaxInt64 has no int64 numerator
	_, _, err := m.Put(huge, bartime.Zero)
	assert.ErrorIs(t, err, qerrors.ErrOverflow)
	assert.False(t, m.Fits(huge, bartime.Zero))
	assert.Equal(t, 0, m.Len())
	assert.Panics(t, func() { m.Next(huge) })
	_, _, err = m.Room(huge)
	assert.ErrorIs(t, err, qerrors.ErrOverflow)

	// both fit on their own, their sum needs a denominator past int64
	offset, duration := of(1, 4294967291), of(1, 4294967279)
	_, _, err = m.Put(offset, duration)
	assert.ErrorIs(t, err, qerrors.ErrOverflow)
	assert.Equal(t, 0, m.Len())
	assert.NotPanics(t, func() { m.Length() })
	_, _, err = m.Put(bartime.Eighth, bartime.Zero)
	assert.NoError(t, err)
}

func TestRoom(t *testing.T) {
	m := halfAndEighth(t)
	lasting, next, err := m.Room(of(9, 4))
	require.NoError(t, err)
	assert.Same(t, of(1, 4), lasting)
	assert.Same(t, of(7, 4), next)
}
