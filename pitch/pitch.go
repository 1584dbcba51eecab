package pitch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var pattern = regexp.MustCompile(`^[A-G][#b]?\d$`)

var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Valid reports whether p is a scientific pitch name such as "C4" or "F#5".
// Nothing is normalized: "c4" and "C10" are not valid.
func Valid(p string) bool {
	return pattern.MatchString(p)
}

// Equal is exact string equality. C#4 and Db4 are different pitches here.
func Equal(a, b string) bool {
	return a == b
}

// FromMidi converts a MIDI key number to a sharp-spelled pitch name.
// Only keys with a single digit octave (12..131) have a name.
func FromMidi(key uint8) (string, error) {
	if key < 12 {
		return "", errors.Errorf("midi key %d has no single digit octave", key)
	}
	n := int(key) - 12
	return fmt.Sprintf("%s%d", sharpNames[n%12], n/12), nil
}

// ToMidi converts a pitch name to its MIDI key number. Flats are accepted.
func ToMidi(p string) (uint8, error) {
	if !Valid(p) {
		return 0, errors.Errorf("invalid pitch %q", p)
	}
	semis := letterSemitones[p[0]]
	switch p[1] {
	case '#':
		semis++
	case 'b':
		semis--
	}
	octave := int(p[len(p)-1] - '0')
	key := (octave+1)*12 + semis
	if key < 0 || key > 127 {
		return 0, errors.Errorf("pitch %q is outside the midi range", p)
	}
	return uint8(key), nil
}

// Key joins pitches into a display key, e.g. "C4-E4-G4".
func Key(pitches []string) string {
	return strings.Join(pitches, "-")
}
