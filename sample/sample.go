package sample

import (
	"sort"

	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	Resolution = 960
	BPM        = 120.0
)

// msPerQuarter at BPM
const msPerQuarter = 60000 / BPM

func ticks(ms float64) uint64 {
	return uint64(ms*Resolution/msPerQuarter + 0.5)
}

type event struct {
	tick  uint64
	isOff bool
	key   uint8
	vel   uint8
}

// FromSequence renders seq as a two track SMF: a tempo track and one
// note track on channel 0.
func FromSequence(seq model.Sequence) (*smf.SMF, error) {
	var events []event
	for i, n := range seq {
		key, err := pitch.ToMidi(n.Note)
		if err != nil {
			return nil, errors.Wrapf(err, "note %d", i)
		}
		// a NoteOn with velocity 0 would read back as a NoteOff
		vel := uint8(n.Velocity)
		if vel == 0 {
			vel = 1
		}
		events = append(events,
			event{tick: ticks(n.StartTime), key: key, vel: vel},
			event{tick: ticks(n.StartTime + n.Duration), isOff: true, key: key},
		)
	}

	// earlier first, then note offs so a repeated key is released before
	// it is struck again
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(Resolution)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(BPM))
	tempo.Close(0)
	if err := res.Add(tempo); err != nil {
		return nil, errors.Wrap(err, "adding tempo track")
	}

	var track smf.Track
	var last uint64
	for _, evt := range events {
		delta := uint32(evt.tick - last)
		last = evt.tick
		if evt.isOff {
			track.Add(delta, midi.NoteOff(0, evt.key))
		} else {
			track.Add(delta, midi.NoteOn(0, evt.key, evt.vel))
		}
	}
	track.Close(0)
	if err := res.Add(track); err != nil {
		return nil, errors.Wrap(err, "adding note track")
	}

	return res, nil
}

func WriteFile(seq model.Sequence, path string) error {
	s, err := FromSequence(seq)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.WriteFile(path), "writing %s", path)
}
