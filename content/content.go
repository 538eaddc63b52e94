// Package content groups simultaneous musical events into chords.
//
// A PrincipalSet occupies time in a voice; an OptionalSet decorates a
// PrincipalSet (grace notes and the like) and occupies none.
package content

import (
	"github.com/jsphweid/quint/bartime"
)

// Pitch is defined by the caller. Only its order is used here.
type Pitch interface {
	// ComparePitch returns -1, 0 or +1 when the receiver sounds lower, the
	// same or higher than other.
	ComparePitch(other Pitch) int
	String() string
}

// Item is a note, rest or anything else that can sound in a chord.
type Item interface {
	bartime.Measurable
	// Pitch returns false for rests.
	Pitch() (Pitch, bool)
}

// Order is a total order over items used to iterate chords
// deterministically.
type Order func(a, b Item) int

// ByPitch orders from bottom to top. Rests sort lowest.
func ByPitch(a, b Item) int {
	pa, oka := a.Pitch()
	pb, okb := b.Pitch()
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return -1
	case !okb:
		return 1
	default:
		return pa.ComparePitch(pb)
	}
}

// Descending reverses an order, e.g. to read a chord top to bottom.
func Descending(o Order) Order {
	return func(a, b Item) int {
		return o(b, a)
	}
}

func isPitched(it Item) bool {
	_, ok := it.Pitch()
	return ok
}
