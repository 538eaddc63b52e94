package content

import (
	"strings"

	"github.com/jsphweid/quint/bartime"
	"golang.org/x/exp/slices"
)

// group is the sorted item storage shared by both set kinds. Items that
// compare equal under the order and have the same duration are kept once.
type group struct {
	items []Item
	order Order
}

func newGroup() group {
	return group{order: ByPitch}
}

// compare breaks ties of the order by duration, shortest first.
func (g *group) compare(a, b Item) int {
	if c := g.order(a, b); c != 0 {
		return c
	}
	return bartime.Compare(a, b)
}

func (g *group) search(it Item) (int, bool) {
	return slices.BinarySearchFunc(g.items, it, g.compare)
}

func (g *group) insert(it Item) bool {
	i, found := g.search(it)
	if found {
		return false
	}
	g.items = slices.Insert(g.items, i, it)
	return true
}

// Contains reports whether an item equal to it is already a member.
func (g *group) Contains(it Item) bool {
	_, found := g.search(it)
	return found
}

// SortBy changes the iteration order. Items that become equal under the new
// order and duration are all kept.
func (g *group) SortBy(o Order) {
	g.order = o
	slices.SortStableFunc(g.items, g.compare)
}

// Items returns the members in iteration order.
func (g *group) Items() []Item {
	return slices.Clone(g.items)
}

func (g *group) Len() int {
	return len(g.items)
}

// Pitches returns the pitches of the pitched members in iteration order.
func (g *group) Pitches() []Pitch {
	var res []Pitch
	for _, it := range g.items {
		if p, ok := it.Pitch(); ok {
			res = append(res, p)
		}
	}
	return res
}

func (g *group) IsPitched() bool {
	return slices.IndexFunc(g.items, isPitched) >= 0
}

func (g *group) IsRest() bool {
	return !g.IsPitched()
}

func (g *group) IsChord() bool {
	return len(g.Pitches()) > 1
}

// Key joins the pitches with "-", e.g. "60-64-67". Rests give "".
func (g *group) Key() string {
	var parts []string
	for _, p := range g.Pitches() {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "-")
}

func (g *group) longest() *bartime.Time {
	return bartime.Longest(g.items)
}
