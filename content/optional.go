package content

import (
	"github.com/jsphweid/quint/bartime"
)

// OptionalSet is a chord of decorations such as grace notes. Its items keep
// their written durations but it occupies no time in a voice.
type OptionalSet struct {
	group
}

func NewOptional(items ...Item) *OptionalSet {
	s := &OptionalSet{group: newGroup()}
	for _, it := range items {
		s.insert(it)
	}
	return s
}

// Add reports false when an equal item is already there.
func (s *OptionalSet) Add(item Item) bool {
	return s.insert(item)
}

// Duration is the longest written duration, or Zero when empty.
func (s *OptionalSet) Duration() *bartime.Time {
	return s.longest()
}
