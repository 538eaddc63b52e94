package midi

import (
	"fmt"

	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/model"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

// Resolution is the ticks per quarter note of s. Files timed in SMPTE
// frames have no musical grid and are rejected.
func Resolution(s *smf.SMF) (uint16, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return 0, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"only metric time formats can be placed into bars",
			map[string]string{"format": fmt.Sprint(s.TimeFormat)})
	}
	return ticks.Resolution(), nil
}

type pressKey struct {
	channel uint8
	key     uint8
}

type press struct {
	tick     int64
	velocity uint8
}

// Events reduces all tracks of s to sounding notes ordered by offset, then
// longest first, then key. A key struck again before its release ends the
// earlier note.
func Events(s *smf.SMF) ([]model.NoteEvent, error) {
	res, err := Resolution(s)
	if err != nil {
		return nil, err
	}
	toTime := func(ticks int64) (*bartime.Time, error) {
		return bartime.Of(ticks, int64(res))
	}

	var events []model.NoteEvent
	for trackNum, track := range s.Tracks {
		var absTicks int64
		pressed := make(map[pressKey]press)

		release := func(k pressKey) error {
			p, ok := pressed[k]
			if !ok {
				return nil
			}
			delete(pressed, k)
			if absTicks == p.tick {
				return nil
			}
			offset, err := toTime(p.tick)
			if err != nil {
				return err
			}
			duration, err := toTime(absTicks - p.tick)
			if err != nil {
				return err
			}
			events = append(events, model.NoteEvent{
				Offset:   offset,
				Duration: duration,
				Key:      k.key,
				Channel:  k.channel,
				Velocity: p.velocity,
				Track:    trackNum,
			})
			return nil
		}

		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				k := pressKey{channel, key}
				if err := release(k); err != nil {
					return nil, err
				}
				if velocity > 0 {
					pressed[k] = press{tick: absTicks, velocity: velocity}
				}
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				if err := release(pressKey{channel, key}); err != nil {
					return nil, err
				}
			}
		}
		// notes still held at the end of the track stop there
		for k := range pressed {
			if err := release(k); err != nil {
				return nil, err
			}
		}
	}

	slices.SortStableFunc(events, func(a, b model.NoteEvent) int {
		if c := a.Offset.Compare(b.Offset); c != 0 {
			return c
		}
		if c := b.Duration.Compare(a.Duration); c != 0 {
			return c
		}
		return int(a.Key) - int(b.Key)
	})
	return events, nil
}

// Meters lists the time signature changes of s in order. A file without
// any yields nil.
func Meters(s *smf.SMF) ([]model.Meter, error) {
	res, err := Resolution(s)
	if err != nil {
		return nil, err
	}

	var meters []model.Meter
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var num, denom, clocks, demis uint8
			if !event.Message.GetMetaTimeSig(&num, &denom, &clocks, &demis) {
				continue
			}
			if num == 0 || denom == 0 {
				continue
			}
			offset, err := bartime.Of(absTicks, int64(res))
			if err != nil {
				return nil, err
			}
			capacity, err := bartime.Of(int64(num)*4, int64(denom))
			if err != nil {
				return nil, err
			}
			meters = append(meters, model.Meter{Offset: offset, Capacity: capacity})
		}
	}

	slices.SortStableFunc(meters, func(a, b model.Meter) int {
		return a.Offset.Compare(b.Offset)
	})
	return meters, nil
}
