package keyboard

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Key is one key press or release on the learner's keyboard.
type Key struct {
	Pitch    string
	Velocity uint8
	On       bool
	// milliseconds since listening started
	Time int32
}

func ListInputs() []string {
	var res []string
	for _, in := range midi.GetInPorts() {
		res = append(res, in.String())
	}
	return res
}

func ListOutputs() []string {
	var res []string
	for _, out := range midi.GetOutPorts() {
		res = append(res, out.String())
	}
	return res
}

// FindInPort prefers an exact name match over a substring match. An empty
// name picks the first input.
func FindInPort(name string) (drivers.In, error) {
	ins := midi.GetInPorts()
	if name == "" && len(ins) > 0 {
		return ins[0], nil
	}
	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}
	for _, in := range ins {
		if name != "" && strings.Contains(in.String(), name) {
			return in, nil
		}
	}
	return nil, errors.Errorf("midi input not found: %q", name)
}

// Listen calls onKey for every note start and end on the named input until
// stop is called. Messages other than notes are ignored.
func Listen(name string, logger *log.Logger, onKey func(Key)) (stop func(), err error) {
	in, err := FindInPort(name)
	if err != nil {
		return nil, err
	}

	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		key, ok := toKey(msg, timestampms)
		if !ok {
			return
		}
		onKey(key)
	}, midi.HandleError(func(listenErr error) {
		logger.Warn("midi listener error", "device", in.String(), "err", listenErr)
	}))
	if err != nil {
		_ = in.Close()
		return nil, errors.Wrapf(err, "listening on %s", in.String())
	}

	logger.Info("listening", "device", in.String())
	return stop, nil
}

func toKey(msg midi.Message, timestampms int32) (Key, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		p, err := pitch.FromMidi(key)
		if err != nil {
			return Key{}, false
		}
		return Key{Pitch: p, Velocity: vel, On: true, Time: timestampms}, true
	case msg.GetNoteEnd(&ch, &key):
		p, err := pitch.FromMidi(key)
		if err != nil {
			return Key{}, false
		}
		return Key{Pitch: p, Time: timestampms}, true
	default:
		return Key{}, false
	}
}
