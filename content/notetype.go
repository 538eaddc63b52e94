package content

import (
	"fmt"

	"github.com/jsphweid/quint/bartime"
)

// Type is the written note value, independent of the sounding duration.
type Type int

const (
	Breve Type = iota
	Whole
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
	SixtyFourth
	OneHundredTwentyEighth
)

var types = []struct {
	duration *bartime.Time
	symbol   string
	name     string
}{
	Breve:                  {bartime.Breve, `\breve`, "breve"},
	Whole:                  {bartime.Whole, "1", "whole"},
	Half:                   {bartime.Half, "2", "half"},
	Quarter:                {bartime.Quarter, "4", "quarter"},
	Eighth:                 {bartime.Eighth, "8", "eighth"},
	Sixteenth:              {bartime.Sixteenth, "16", "16th"},
	ThirtySecond:           {bartime.ThirtySecond, "32", "32nd"},
	SixtyFourth:            {bartime.SixtyFourth, "64", "64th"},
	OneHundredTwentyEighth: {bartime.OneHundredTwentyEighth, "128", "128th"},
}

func (t Type) Valid() bool {
	return t >= Breve && t <= OneHundredTwentyEighth
}

// Duration is the undotted length of the type.
func (t Type) Duration() *bartime.Time {
	if !t.Valid() {
		return bartime.Zero
	}
	return types[t].duration
}

// Symbol is the LilyPond duration, e.g. "4" for a quarter.
func (t Type) Symbol() string {
	if !t.Valid() {
		return ""
	}
	return types[t].symbol
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return types[t].name
}

// Dotted is the length of the type with n dots: each dot adds half of the
// previous value.
func (t Type) Dotted(n int) *bartime.Time {
	d := t.Duration()
	add := d
	for i := 0; i < n; i++ {
		add = add.Mul(bartime.MustOf(1, 2))
		d = d.Add(add)
	}
	return d
}

// TypeOf finds the type whose undotted length is d.
func TypeOf(d *bartime.Time) (Type, bool) {
	for t := range types {
		if types[t].duration == d {
			return Type(t), true
		}
	}
	return 0, false
}

// MaxDots bounds the dots Describe and NewNote accept.
const MaxDots = 3

// Describe writes d as a type with up to MaxDots dots. Tuplet lengths such
// as 1/3 have no such spelling.
func Describe(d *bartime.Time) (Type, int, bool) {
	for t := range types {
		for dots := 0; dots <= MaxDots; dots++ {
			if Type(t).Dotted(dots) == d {
				return Type(t), dots, true
			}
		}
	}
	return 0, 0, false
}

// Floor is the longest type not longer than d, or the shortest type when d
// is shorter than all of them.
func Floor(d *bartime.Time) Type {
	for t := range types {
		if types[t].duration.LessOrEqual(d) {
			return Type(t)
		}
	}
	return OneHundredTwentyEighth
}
