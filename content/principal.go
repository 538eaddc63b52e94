package content

import (
	"fmt"

	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"golang.org/x/exp/slices"
)

// PrincipalSet is a chord that occupies time. All members share the chord's
// duration, except that a shorter item may join later.
//
// An empty set made by Reserve keeps its capacity as its duration until the
// first item arrives; the capacity then shrinks to that item's duration.
type PrincipalSet struct {
	group
	capacity  *bartime.Time
	optionals []*OptionalSet
}

// NewPrincipal builds a chord from one or more items of equal duration.
func NewPrincipal(items ...Item) (*PrincipalSet, error) {
	if len(items) == 0 {
		return nil, qerrors.New(qerrors.CodeInvalidArgument, "a principal set needs at least one item")
	}
	d := items[0].Duration()
	for _, it := range items[1:] {
		if it.Duration() != d {
			return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
				"items of a principal set must share one duration",
				map[string]string{"first": fmt.Sprint(d), "other": fmt.Sprint(it.Duration())})
		}
	}
	if d == nil || d.Sign() < 0 {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"duration must be a non-negative bar time",
			map[string]string{"duration": fmt.Sprint(d)})
	}
	s := &PrincipalSet{group: newGroup(), capacity: d}
	for _, it := range items {
		s.insert(it)
	}
	return s, nil
}

// Reserve returns an empty set that holds capacity until an item joins. A
// voice uses it to anchor decorations where no chord sounds yet.
func Reserve(capacity *bartime.Time) (*PrincipalSet, error) {
	if capacity == nil || capacity.Sign() < 0 {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"capacity must be a non-negative bar time",
			map[string]string{"capacity": fmt.Sprint(capacity)})
	}
	return &PrincipalSet{group: newGroup(), capacity: capacity}, nil
}

// Duration is the locked duration of the chord.
func (s *PrincipalSet) Duration() *bartime.Time {
	return s.capacity
}

// CheckAdd returns the reason item cannot join the chord, or nil.
func (s *PrincipalSet) CheckAdd(item Item) error {
	d := item.Duration()
	if d == nil || d.Sign() < 0 {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"duration must be a non-negative bar time",
			map[string]string{"duration": fmt.Sprint(d)})
	}
	if d.Greater(s.capacity) {
		return qerrors.WithMetadata(qerrors.CodeConstraintViolation,
			fmt.Sprintf("an item of duration %v exceeds the chord duration %v", d, s.capacity),
			map[string]string{"duration": d.String(), "chord": s.capacity.String()})
	}
	return nil
}

// Add puts item into the chord. It reports false when an item of the same
// pitch and duration is already there.
func (s *PrincipalSet) Add(item Item) (bool, error) {
	if err := s.CheckAdd(item); err != nil {
		return false, err
	}
	empty := s.Len() == 0
	if !s.insert(item) {
		return false, nil
	}
	if empty {
		s.capacity = item.Duration()
	}
	return true, nil
}

// Remove takes item out of the chord. The duration stays locked.
func (s *PrincipalSet) Remove(item Item) bool {
	i, found := s.search(item)
	if !found {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *PrincipalSet) AppendOptional(o *OptionalSet) {
	s.optionals = append(s.optionals, o)
}

// InsertOptional puts o at index i of the decoration list, shifting the
// rest back. i may equal the list length.
func (s *PrincipalSet) InsertOptional(i int, o *OptionalSet) error {
	if i < 0 || i > len(s.optionals) {
		return indexError(i, len(s.optionals))
	}
	s.optionals = slices.Insert(s.optionals, i, o)
	return nil
}

func (s *PrincipalSet) RemoveOptional(i int) (*OptionalSet, error) {
	if i < 0 || i >= len(s.optionals) {
		return nil, indexError(i, len(s.optionals))
	}
	o := s.optionals[i]
	s.optionals = slices.Delete(s.optionals, i, i+1)
	return o, nil
}

func (s *PrincipalSet) ClearOptionalList() {
	s.optionals = nil
}

// OptionalList returns the decorations in the order they are played.
func (s *PrincipalSet) OptionalList() []*OptionalSet {
	return slices.Clone(s.optionals)
}

func (s *PrincipalSet) String() string {
	if s.IsRest() {
		return fmt.Sprintf("rest(%v)", s.capacity)
	}
	return fmt.Sprintf("%s(%v)", s.Key(), s.capacity)
}

func indexError(i, n int) error {
	return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
		fmt.Sprintf("index %d is out of range for %d decorations", i, n),
		map[string]string{"index": fmt.Sprint(i), "len": fmt.Sprint(n)})
}
