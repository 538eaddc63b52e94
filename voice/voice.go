// Package voice places notes and decorations into one voice of a bar.
package voice

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jsphweid/quint/barmap"
	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/content"
	qerrors "github.com/jsphweid/quint/errors"
	"golang.org/x/exp/slices"
)

// Voice is a packing map of chords. Decorations hang off the chord at
// their offset.
type Voice struct {
	ID uuid.UUID
	*barmap.Map[*content.PrincipalSet]
}

func New(capacity *bartime.Time) (*Voice, error) {
	m, err := barmap.New[*content.PrincipalSet](capacity)
	if err != nil {
		return nil, err
	}
	return &Voice{ID: uuid.New(), Map: m}, nil
}

// PutPrincipal adds item at offset. At an occupied offset it joins the
// chord there and must not be longer than that chord nor repeat one of its
// items; otherwise it starts a new chord.
func (v *Voice) PutPrincipal(offset *bartime.Time, item content.Item) error {
	if err := v.CheckFits(offset, item); err != nil {
		return err
	}
	if set, ok := v.Get(offset); ok {
		added, err := set.Add(item)
		if err != nil {
			return err
		}
		if !added {
			return duplicate(offset, item)
		}
		return nil
	}
	set, err := content.NewPrincipal(item)
	if err != nil {
		return err
	}
	_, _, err = v.Put(offset, set)
	return err
}

// PutOptional decorates the chord at offset with item. Where no chord
// starts, an empty chord reserving the room up to the next one is created
// to carry it.
func (v *Voice) PutOptional(offset *bartime.Time, item content.Item) error {
	if err := v.CheckFree(offset); err != nil {
		return err
	}
	deco := content.NewOptional(item)
	if set, ok := v.Get(offset); ok {
		set.AppendOptional(deco)
		return nil
	}
	room := v.Next(offset)
	set, err := content.Reserve(room)
	if err != nil {
		return err
	}
	set.AppendOptional(deco)
	_, _, err = v.Put(offset, set)
	return err
}

func duplicate(offset *bartime.Time, item content.Item) error {
	return qerrors.WithMetadata(qerrors.CodeConstraintViolation,
		fmt.Sprintf("the chord at %v already holds %v", offset, item),
		map[string]string{"offset": offset.String(), "duration": item.Duration().String()})
}

// PutPrincipals adds items at offset longest first, so a new chord takes
// the longest duration. Repeats within items are placed once. Either all
// items are placed or none.
func (v *Voice) PutPrincipals(offset *bartime.Time, items ...content.Item) error {
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		if d := it.Duration(); d == nil || d.Sign() < 0 {
			return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
				"duration must be a non-negative bar time",
				map[string]string{"duration": fmt.Sprint(d)})
		}
	}
	var sorted []content.Item
	for _, it := range items {
		if !slices.ContainsFunc(sorted, func(o content.Item) bool { return same(it, o) }) {
			sorted = append(sorted, it)
		}
	}
	slices.SortStableFunc(sorted, func(a, b content.Item) int {
		return bartime.Compare(b, a)
	})
	longest := sorted[0]
	if err := v.CheckFits(offset, longest); err != nil {
		return err
	}
	if set, ok := v.Get(offset); ok {
		if err := set.CheckAdd(longest); err != nil {
			return err
		}
		for _, it := range sorted {
			if set.Contains(it) {
				return duplicate(offset, it)
			}
		}
	}
	for _, it := range sorted {
		if err := v.PutPrincipal(offset, it); err != nil {
			return err
		}
	}
	return nil
}

func same(a, b content.Item) bool {
	return content.ByPitch(a, b) == 0 && bartime.Compare(a, b) == 0
}

// Chords returns the pitched and rest chords in offset order, skipping
// empty reservations.
func (v *Voice) Chords() []barmap.Entry[*content.PrincipalSet] {
	var res []barmap.Entry[*content.PrincipalSet]
	for _, e := range v.Entries() {
		if e.Value.Len() > 0 {
			res = append(res, e)
		}
	}
	return res
}

func (v *Voice) String() string {
	s := ""
	v.Each(func(offset *bartime.Time, set *content.PrincipalSet) bool {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%v:%v", offset, set)
		return true
	})
	return s
}
