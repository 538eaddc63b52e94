package midi

import (
	"fmt"
	"io"
	"log"

	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/content"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

const exportVelocity = 100

type timedMessage struct {
	tick  int64
	off   bool
	tied  bool
	key   uint8
	meta  bool
	bytes []byte
}

func ticksOf(t *bartime.Time, resolution uint16) int64 {
	return t.Num() * int64(resolution) / t.Den()
}

// meterOf writes a capacity in quarters as a time signature. Capacities
// whose fraction of a whole has no power-of-two denominator have none.
func meterOf(capacity *bartime.Time) (num, denom uint8, ok bool) {
	whole, err := bartime.Quotient(capacity, bartime.Whole)
	if err != nil {
		return 0, 0, false
	}
	n, d := whole.Num(), whole.Den()
	for d < 4 {
		n, d = n*2, d*2
	}
	if d&(d-1) != 0 || n > 255 || d > 128 {
		return 0, 0, false
	}
	return uint8(n), uint8(d), true
}

// Export writes the score as a standard MIDI file with one track per voice
// index. Tied pieces are joined back into one note. The first track carries
// the time signatures.
func Export(score *Score, resolution uint16, w io.Writer) error {
	var tracks [][]timedMessage
	track := func(i int) *[]timedMessage {
		for len(tracks) <= i {
			tracks = append(tracks, nil)
		}
		return &tracks[i]
	}

	var lastCapacity *bartime.Time
	for _, bar := range score.Bars {
		if bar.capacity != lastCapacity {
			lastCapacity = bar.capacity
			if num, denom, ok := meterOf(bar.capacity); ok {
				t := track(0)
				*t = append(*t, timedMessage{tick: ticksOf(bar.Offset, resolution), meta: true, bytes: smf.MetaMeter(num, denom)})
			} else {
				log.Printf("Bar %v has capacity %v which no time signature can express\n", bar.Number, bar.capacity)
			}
		}
		for i, v := range bar.Voices {
			t := track(i)
			v.Each(func(offset *bartime.Time, set *content.PrincipalSet) bool {
				start := bar.Offset.Add(offset)
				for _, item := range set.Items() {
					p, ok := item.Pitch()
					if !ok {
						continue
					}
					k, ok := p.(Key)
					if !ok {
						continue
					}
					end := start.Add(item.Duration())
					*t = append(*t,
						timedMessage{tick: ticksOf(start, resolution), key: uint8(k), bytes: gomidi.NoteOn(0, uint8(k), exportVelocity)},
						timedMessage{tick: ticksOf(end, resolution), off: true, tied: tiedOver(item), key: uint8(k), bytes: gomidi.NoteOff(0, uint8(k))},
					)
				}
				return true
			})
		}
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	for i, msgs := range tracks {
		msgs = joinTies(msgs)
		slices.SortStableFunc(msgs, func(a, b timedMessage) int {
			if a.tick != b.tick {
				if a.tick < b.tick {
					return -1
				}
				return 1
			}
			return rank(a) - rank(b)
		})

		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("voice %d", i+1)))
		var last int64
		for _, m := range msgs {
			tr.Add(uint32(m.tick-last), m.bytes)
			last = m.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return err
		}
	}

	_, err := s.WriteTo(w)
	return err
}

// meta first, then releases, then strikes
func rank(m timedMessage) int {
	switch {
	case m.meta:
		return 0
	case m.off:
		return 1
	}
	return 2
}

func tiedOver(item content.Item) bool {
	n, ok := item.(*content.Note)
	if !ok {
		return false
	}
	tie, ok := n.Attribute(content.AttrTie)
	return ok && tie.Value != "stop"
}

// joinTies drops the release of a tied note together with the strike of
// the same key that continues it. A tie whose continuation landed in
// another voice is kept as two notes.
func joinTies(msgs []timedMessage) []timedMessage {
	type at struct {
		tick int64
		key  uint8
	}
	strikes := map[at]int{}
	for _, m := range msgs {
		if !m.off && !m.meta {
			strikes[at{m.tick, m.key}]++
		}
	}
	releases := map[at]int{}
	for _, m := range msgs {
		a := at{m.tick, m.key}
		if m.tied && strikes[a] > releases[a] {
			releases[a]++
		}
	}
	strikes = map[at]int{}
	for a, n := range releases {
		strikes[a] = n
	}
	res := msgs[:0:0]
	for _, m := range msgs {
		a := at{m.tick, m.key}
		switch {
		case m.tied && releases[a] > 0:
			releases[a]--
		case !m.off && !m.meta && strikes[a] > 0:
			strikes[a]--
		default:
			res = append(res, m)
		}
	}
	return res
}
