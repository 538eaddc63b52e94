package midi

import (
	"fmt"
	"log"

	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/content"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/model"
	"github.com/jsphweid/quint/voice"
	"golang.org/x/exp/slices"
)

// PlaceConfig controls how events are laid out.
type PlaceConfig struct {
	// Capacity of bars before the first time signature.
	Capacity *bartime.Time
	// MaxVoices bounds the voices opened per bar. Notes that fit in none
	// of them are dropped.
	MaxVoices int
	// Meters from the file, ordered by offset.
	Meters []model.Meter
}

// Bar is one measure of the piece. Voice offsets are relative to Offset.
type Bar struct {
	Number   int
	Offset   *bartime.Time
	Voices   []*voice.Voice
	capacity *bartime.Time
}

func (b *Bar) Capacity() *bartime.Time {
	return b.capacity
}

func (b *Bar) End() *bartime.Time {
	return b.Offset.Add(b.capacity)
}

// Score is the result of placing a file.
type Score struct {
	Bars    []*Bar
	Dropped []model.NoteEvent
}

// Notes counts the items placed in all voices.
func (s *Score) Notes() int {
	var n int
	for _, b := range s.Bars {
		for _, v := range b.Voices {
			for _, e := range v.Entries() {
				n += e.Value.Len()
			}
		}
	}
	return n
}

func (c PlaceConfig) validate() error {
	if c.Capacity == nil || c.Capacity.Sign() <= 0 {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"bar capacity must be positive", map[string]string{"capacity": fmt.Sprint(c.Capacity)})
	}
	if c.MaxVoices < 1 {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"at least one voice per bar is needed", map[string]string{"max_voices": fmt.Sprint(c.MaxVoices)})
	}
	for _, m := range c.Meters {
		if m.Capacity == nil || m.Capacity.Sign() <= 0 {
			return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
				"meter capacity must be positive", map[string]string{"offset": fmt.Sprint(m.Offset)})
		}
	}
	return nil
}

// Place lays events out into bars. Each note goes into the first voice of
// its bar where it fits, joining a chord there only when onset and duration
// match. Notes crossing a barline are split and tied.
func Place(events []model.NoteEvent, cfg PlaceConfig) (*Score, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	score := &Score{}
	p := &placer{cfg: cfg, score: score}
	for _, evt := range events {
		if err := p.place(evt); err != nil {
			return nil, err
		}
	}
	return score, nil
}

type placer struct {
	cfg   PlaceConfig
	score *Score
}

func (p *placer) capacityAt(offset *bartime.Time) *bartime.Time {
	capacity := p.cfg.Capacity
	for _, m := range p.cfg.Meters {
		if m.Offset.Greater(offset) {
			break
		}
		capacity = m.Capacity
	}
	return capacity
}

// barAt returns the bar holding offset, appending bars as needed.
func (p *placer) barAt(offset *bartime.Time) (*Bar, error) {
	bars := p.score.Bars
	for len(bars) == 0 || !offset.Less(bars[len(bars)-1].End()) {
		start := bartime.Zero
		if len(bars) > 0 {
			start = bars[len(bars)-1].End()
		}
		capacity := p.capacityAt(start)
		if _, err := bartime.Sum(start, capacity); err != nil {
			return nil, err
		}
		bars = append(bars, &Bar{Number: len(bars) + 1, Offset: start, capacity: capacity})
	}
	p.score.Bars = bars

	// events arrive in order, so the hit is almost always the last bar
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Offset.LessOrEqual(offset) {
			return bars[i], nil
		}
	}
	return bars[0], nil
}

// placed is one piece of a note that landed in a voice.
type placed struct {
	bar   *Bar
	voice *voice.Voice
	local *bartime.Time
	note  *content.Note
}

// tieOf names the tie of a piece: the first of several starts it, the last
// stops it and the ones between continue it.
func tieOf(first, last bool) (content.Attribute, bool) {
	tie := content.Attribute{Kind: content.AttrTie}
	switch {
	case first && last:
		return tie, false
	case first:
		tie.Value = "start"
	case last:
		tie.Value = "stop"
	default:
		tie.Value = "continue"
	}
	return tie, true
}

func (p *placer) place(evt model.NoteEvent) error {
	if evt.Offset.Sign() < 0 || evt.Duration.Sign() <= 0 {
		return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"events need a non-negative offset and a positive duration",
			map[string]string{"offset": fmt.Sprint(evt.Offset), "duration": fmt.Sprint(evt.Duration)})
	}
	var pieces []placed
	offset, remaining := evt.Offset, evt.Duration
	for remaining.Sign() > 0 {
		bar, err := p.barAt(offset)
		if err != nil {
			return err
		}
		local := offset.Sub(bar.Offset)
		piece := bartime.Min(remaining, bar.capacity.Sub(local))

		var attrs []content.Attribute
		if tie, ok := tieOf(len(pieces) == 0, piece == remaining); ok {
			attrs = append(attrs, tie)
		}
		n, err := content.Spell(Key(evt.Key), piece, attrs...)
		if err != nil {
			return err
		}
		v, ok := p.put(bar, local, n)
		if !ok {
			log.Printf("Dropping key %v at %v in bar %v, all %v voices are busy\n", evt.Key, local, bar.Number, p.cfg.MaxVoices)
			p.unplace(pieces)
			p.score.Dropped = append(p.score.Dropped, evt)
			return nil
		}
		pieces = append(pieces, placed{bar: bar, voice: v, local: local, note: n})
		if piece != remaining {
			log.Printf("Splitting key %v at barline %v\n", evt.Key, bar.End())
		}
		offset = offset.Add(piece)
		remaining = remaining.Sub(piece)
	}
	return nil
}

// unplace takes back the pieces of a note that could not be placed whole.
// Chords and voices left empty by that go too.
func (p *placer) unplace(pieces []placed) {
	for _, pc := range pieces {
		set, ok := pc.voice.Get(pc.local)
		if !ok {
			continue
		}
		set.Remove(pc.note)
		if set.Len() == 0 {
			pc.voice.Remove(pc.local)
		}
		if pc.voice.Len() == 0 {
			pc.bar.Voices = slices.DeleteFunc(pc.bar.Voices, func(v *voice.Voice) bool {
				return v == pc.voice
			})
		}
	}
}

func (p *placer) put(bar *Bar, local *bartime.Time, n *content.Note) (*voice.Voice, bool) {
	for _, v := range bar.Voices {
		if set, ok := v.Get(local); ok {
			if set.Duration() != n.Duration() {
				continue
			}
			if err := v.PutPrincipal(local, n); err == nil {
				return v, true
			}
			continue
		}
		if v.Fits(local, n) {
			return v, v.PutPrincipal(local, n) == nil
		}
	}
	if len(bar.Voices) >= p.cfg.MaxVoices {
		return nil, false
	}
	v, err := voice.New(bar.capacity)
	if err != nil {
		return nil, false
	}
	if err := v.PutPrincipal(local, n); err != nil {
		return nil, false
	}
	bar.Voices = append(bar.Voices, v)
	return v, true
}
