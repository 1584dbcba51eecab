package cmd

import (
	"strconv"
	"strings"

	"github.com/jsphweid/eartrainer/catalog"
	"github.com/jsphweid/eartrainer/file"
	"github.com/jsphweid/eartrainer/midi"
	"github.com/jsphweid/eartrainer/model"
	"github.com/pkg/errors"
)

// melodyRef says where a sequence came from. unitID is 0 unless it is a
// course melody.
type melodyRef struct {
	unitID int
	number int
	name   string
}

func (r melodyRef) String() string {
	if r.unitID != 0 {
		return model.MelodyID(r.unitID, r.number)
	}
	return r.name
}

const melodyArgsUsage = "<unitId> <melodyNumber> | <builtin name> | <file.mid>"

// loadMelody resolves command arguments to a sequence: a unit and melody
// number from the notes directory, a built-in table or a MIDI file.
func loadMelody(args []string) (model.Sequence, melodyRef, error) {
	switch len(args) {
	case 1:
		arg := args[0]
		if strings.HasSuffix(arg, ".mid") || strings.HasSuffix(arg, ".midi") {
			s, err := midi.ReadMidiFile(arg)
			if err != nil {
				return nil, melodyRef{}, err
			}
			seq, err := midi.ToSequence(s)
			return seq, melodyRef{name: file.Name(arg)}, err
		}
		seq, ok := catalog.Builtin(arg)
		if !ok {
			return nil, melodyRef{}, errors.Errorf("no built-in melody %q, have %s", arg, strings.Join(catalog.BuiltinNames(), ", "))
		}
		return seq, melodyRef{name: arg}, nil
	case 2:
		unitID, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, melodyRef{}, errors.Wrap(err, "unitId")
		}
		number, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, melodyRef{}, errors.Wrap(err, "melodyNumber")
		}
		seq, err := openStore().Resolve(unitID, number)
		return seq, melodyRef{unitID: unitID, number: number}, err
	default:
		return nil, melodyRef{}, errors.New("expected " + melodyArgsUsage)
	}
}
