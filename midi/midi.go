package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = &blank, errors.Errorf("Error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "Error reading midi file...")
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "Error parsing midi file...")
	}

	return res, nil
}

type held struct {
	start    int64
	velocity uint8
}

// ToSequence pairs every NoteOn with the next NoteOff of the same key on
// the same track and channel. Offsets honour tempo changes. Notes still
// held at the end of a track are dropped.
func ToSequence(s *smf.SMF) (model.Sequence, error) {
	res := model.Sequence{}

	for _, events := range s.Tracks {
		var absTicks int64
		pressed := make(map[[2]uint8]held)
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				id := [2]uint8{channel, key}
				if _, ok := pressed[id]; ok {
					continue
				}
				pressed[id] = held{start: absTicks, velocity: velocity}
			case event.Message.GetNoteOn(&channel, &key, &velocity),
				event.Message.GetNoteOff(&channel, &key, &velocity):
				id := [2]uint8{channel, key}
				on, ok := pressed[id]
				if !ok {
					continue
				}
				delete(pressed, id)

				p, err := pitch.FromMidi(key)
				if err != nil {
					return nil, errors.Wrapf(err, "note at tick %d", on.start)
				}
				start := float64(s.TimeAt(on.start)) / 1000
				end := float64(s.TimeAt(absTicks)) / 1000
				n, err := model.NewNote(p, start, end-start, int(on.velocity))
				if err != nil {
					return nil, err
				}
				res = append(res, n)
			}
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartTime < res[j].StartTime
	})
	return res, nil
}

// Describe renders a one-line summary per note, used by `inspect`.
func Describe(seq model.Sequence) []string {
	lines := make([]string, 0, len(seq))
	for i, n := range seq {
		lines = append(lines, fmt.Sprintf("%3d  %-4s start=%8.1fms dur=%7.1fms vel=%d", i, n.Note, n.StartTime, n.Duration, n.Velocity))
	}
	return lines
}
