// Package barmap provides an ordered map from bar offsets to timed values
// that never lets two values overlap and never lets a value run past the
// capacity of the bar.
//
// For every stored pair (t, v) the interval [t, t+d(v)) is disjoint from the
// interval of every other stored pair and t+d(v) <= Capacity(). Because each
// insertion is checked against its immediate neighbours only, the invariant
// holds for the whole map without ever rescanning it.
package barmap

import (
	"fmt"

	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"golang.org/x/exp/slices"
)

// Entry is one stored offset/value pair.
type Entry[V bartime.Measurable] struct {
	Offset *bartime.Time
	Value  V
}

// End is the offset at which the entry stops sounding.
func (e Entry[V]) End() *bartime.Time {
	return e.Offset.Add(e.Value.Duration())
}

// Map is the packing container. The zero value is not usable; call New.
type Map[V bartime.Measurable] struct {
	capacity *bartime.Time
	entries  []Entry[V]
}

// New returns an empty map whose values must all end by capacity.
func New[V bartime.Measurable](capacity *bartime.Time) (*Map[V], error) {
	if capacity == nil || capacity.Sign() < 0 {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"bar capacity must be a non-negative bar time",
			map[string]string{"capacity": fmt.Sprint(capacity)})
	}
	return &Map[V]{capacity: capacity}, nil
}

// Capacity is the fixed upper bound of every offset and every end.
func (m *Map[V]) Capacity() *bartime.Time {
	return m.capacity
}

func (m *Map[V]) search(offset *bartime.Time) (int, bool) {
	return slices.BinarySearchFunc(m.entries, offset, func(e Entry[V], t *bartime.Time) int {
		return e.Offset.Compare(t)
	})
}

// LowerEntry returns the entry with the greatest offset strictly less than
// offset.
func (m *Map[V]) LowerEntry(offset *bartime.Time) (Entry[V], bool) {
	i, _ := m.search(offset)
	if i == 0 {
		return Entry[V]{}, false
	}
	return m.entries[i-1], true
}

// HigherEntry returns the entry with the least offset strictly greater than
// offset.
func (m *Map[V]) HigherEntry(offset *bartime.Time) (Entry[V], bool) {
	i, found := m.search(offset)
	if found {
		i++
	}
	if i >= len(m.entries) {
		return Entry[V]{}, false
	}
	return m.entries[i], true
}

func (m *Map[V]) lasting(offset *bartime.Time) (*bartime.Time, error) {
	lower, ok := m.LowerEntry(offset)
	if !ok {
		return bartime.Zero, nil
	}
	end, err := bartime.Sum(lower.Offset, lower.Value.Duration())
	if err != nil {
		return nil, err
	}
	left, err := bartime.Difference(end, offset)
	if err != nil {
		return nil, err
	}
	return bartime.Max(bartime.Zero, left), nil
}

func (m *Map[V]) next(offset *bartime.Time) (*bartime.Time, error) {
	if higher, ok := m.HigherEntry(offset); ok {
		return bartime.Difference(higher.Offset, offset)
	}
	return bartime.Difference(m.capacity, offset)
}

// Lasting returns how far the value stored before offset still extends past
// offset, or Zero if nothing is stored before it. It panics with an OVERFLOW
// error if offset cannot be combined with the stored times in int64.
func (m *Map[V]) Lasting(offset *bartime.Time) *bartime.Time {
	t, err := m.lasting(offset)
	if err != nil {
		panic(err)
	}
	return t
}

// Next returns the room between offset and the following stored offset, or
// between offset and the capacity if nothing follows. It panics with an
// OVERFLOW error if offset cannot be combined with the stored times in int64.
func (m *Map[V]) Next(offset *bartime.Time) *bartime.Time {
	t, err := m.next(offset)
	if err != nil {
		panic(err)
	}
	return t
}

// Room returns Lasting(offset) and Next(offset), or the OVERFLOW error
// those would panic with.
func (m *Map[V]) Room(offset *bartime.Time) (lasting, next *bartime.Time, err error) {
	if lasting, err = m.lasting(offset); err != nil {
		return nil, nil, err
	}
	if next, err = m.next(offset); err != nil {
		return nil, nil, err
	}
	return lasting, next, nil
}

// CheckRange fails with INVALID_ARGUMENT unless 0 <= offset <= Capacity().
func (m *Map[V]) CheckRange(offset *bartime.Time) error {
	if offset == nil {
		return qerrors.New(qerrors.CodeInvalidArgument, "offset is nil")
	}
	if offset.Sign() < 0 || offset.Greater(m.capacity) {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			fmt.Sprintf("offset %v is out of range [0, %v]", offset, m.capacity),
			map[string]string{"offset": offset.String(), "capacity": m.capacity.String()})
	}
	return nil
}

// CheckFree fails with CONSTRAINT_VIOLATION if the value stored before offset
// is still sounding at offset.
func (m *Map[V]) CheckFree(offset *bartime.Time) error {
	if err := m.CheckRange(offset); err != nil {
		return err
	}
	left, err := m.lasting(offset)
	if err != nil {
		return err
	}
	if !left.IsZero() {
		return qerrors.WithMetadata(qerrors.CodeConstraintViolation,
			fmt.Sprintf("the previous value still lasts %v at %v", left, offset),
			map[string]string{"offset": offset.String(), "lasting": left.String()})
	}
	return nil
}

// CheckFits returns the reason value cannot be stored at offset, or nil.
func (m *Map[V]) CheckFits(offset *bartime.Time, value bartime.Measurable) error {
	if err := m.CheckFree(offset); err != nil {
		return err
	}
	d := value.Duration()
	if d == nil || d.Sign() < 0 {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"duration must be a non-negative bar time",
			map[string]string{"duration": fmt.Sprint(d)})
	}
	if _, err := bartime.Sum(offset, d); err != nil {
		return err
	}
	room, err := m.next(offset)
	if err != nil {
		return err
	}
	if d.Greater(room) {
		return qerrors.WithMetadata(qerrors.CodeConstraintViolation,
			fmt.Sprintf("the value of duration %v does not fit at %v, only %v is free", d, offset, room),
			map[string]string{"offset": offset.String(), "duration": d.String(), "next": room.String()})
	}
	return nil
}

// Fits reports whether value can be stored at offset: the offset lies in
// [0, Capacity()], nothing before it is still sounding and its duration does
// not exceed Next(offset). An existing value at offset is ignored, so Fits
// also answers whether a replacement is allowed.
func (m *Map[V]) Fits(offset *bartime.Time, value bartime.Measurable) bool {
	return m.CheckFits(offset, value) == nil
}

// Put stores value at offset and returns the value it replaced, if any. A
// rejected Put leaves the map unchanged.
func (m *Map[V]) Put(offset *bartime.Time, value V) (V, bool, error) {
	var prev V
	if err := m.CheckFits(offset, value); err != nil {
		return prev, false, err
	}
	i, found := m.search(offset)
	if found {
		prev = m.entries[i].Value
		m.entries[i].Value = value
		return prev, true, nil
	}
	m.entries = slices.Insert(m.entries, i, Entry[V]{Offset: offset, Value: value})
	return prev, false, nil
}

// Remove deletes the value at offset. Removing never breaks the invariant.
func (m *Map[V]) Remove(offset *bartime.Time) (V, bool) {
	var prev V
	i, found := m.search(offset)
	if !found {
		return prev, false
	}
	prev = m.entries[i].Value
	m.entries = slices.Delete(m.entries, i, i+1)
	return prev, true
}

// Get returns the value stored at offset.
func (m *Map[V]) Get(offset *bartime.Time) (V, bool) {
	i, found := m.search(offset)
	if !found {
		var zero V
		return zero, false
	}
	return m.entries[i].Value, true
}

func (m *Map[V]) Has(offset *bartime.Time) bool {
	_, found := m.search(offset)
	return found
}

func (m *Map[V]) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the stored pairs in ascending offset order.
func (m *Map[V]) Entries() []Entry[V] {
	return slices.Clone(m.entries)
}

func (m *Map[V]) Keys() []*bartime.Time {
	keys := make([]*bartime.Time, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.Offset)
	}
	return keys
}

// Each calls fn for every entry in ascending offset order until fn returns
// false.
func (m *Map[V]) Each(fn func(offset *bartime.Time, value V) bool) {
	for _, e := range m.entries {
		if !fn(e.Offset, e.Value) {
			return
		}
	}
}

func (m *Map[V]) First() (Entry[V], bool) {
	if len(m.entries) == 0 {
		return Entry[V]{}, false
	}
	return m.entries[0], true
}

func (m *Map[V]) Last() (Entry[V], bool) {
	if len(m.entries) == 0 {
		return Entry[V]{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// Length is the end of the last entry, or Zero for an empty map. It can be
// less than Capacity().
func (m *Map[V]) Length() *bartime.Time {
	last, ok := m.Last()
	if !ok {
		return bartime.Zero
	}
	return last.End()
}

// Fill is Length()/Capacity(), or Zero for a zero capacity.
func (m *Map[V]) Fill() *bartime.Time {
	if m.capacity.IsZero() {
		return bartime.Zero
	}
	f, _ := m.Length().Div(m.capacity)
	return f
}

// Validate rescans the whole map and reports the first pair that breaks the
// packing invariant. Values whose duration can change after insertion use it
// to double check themselves.
func (m *Map[V]) Validate() error {
	for i, e := range m.entries {
		end, err := bartime.Sum(e.Offset, e.Value.Duration())
		if err != nil {
			return err
		}
		limit := m.capacity
		if i+1 < len(m.entries) {
			limit = m.entries[i+1].Offset
		}
		if end.Greater(limit) {
			return qerrors.WithMetadata(qerrors.CodeConstraintViolation,
				fmt.Sprintf("value at %v ends at %v, past %v", e.Offset, end, limit),
				map[string]string{"offset": e.Offset.String(), "end": end.String()})
		}
	}
	return nil
}
