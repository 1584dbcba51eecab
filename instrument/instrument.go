// Package instrument provides the sound sources the playback engine
// triggers notes on.
package instrument

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

type Instrument interface {
	Play(pitch string, velocity uint8) error
	Stop(pitch string) error
	StopAll() error
	Close() error
}

type Loader interface {
	Load(ctx context.Context, name string) (Instrument, error)
}

type LoaderFunc func(ctx context.Context, name string) (Instrument, error)

func (f LoaderFunc) Load(ctx context.Context, name string) (Instrument, error) {
	return f(ctx, name)
}

// General MIDI programs (zero based) for the instruments offered to
// learners.
var programs = map[string]uint8{
	"acoustic_grand_piano":  0,
	"electric_piano_1":      4,
	"music_box":             10,
	"church_organ":          19,
	"acoustic_guitar_nylon": 24,
	"violin":                40,
	"choir_aahs":            52,
	"flute":                 73,
}

var displayNames = map[string]string{
	"acoustic_grand_piano":  "Grand Piano",
	"electric_piano_1":      "Electric Piano",
	"music_box":             "Music Box",
	"church_organ":          "Church Organ",
	"acoustic_guitar_nylon": "Classical Guitar",
	"violin":                "Violin",
	"choir_aahs":            "Choir",
	"flute":                 "Flute",
}

func Program(name string) (uint8, error) {
	p, ok := programs[name]
	if !ok {
		return 0, errors.Wrap(ErrUnknownInstrument, name)
	}
	return p, nil
}

func DisplayName(name string) string {
	return displayNames[name]
}

// Names lists the supported instruments in program order.
func Names() []string {
	names := make([]string, 0, len(programs))
	for n := range programs {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return programs[names[i]] < programs[names[j]]
	})
	return names
}
