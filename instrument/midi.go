package instrument

import (
	"context"
	"strings"
	"sync"

	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const allNotesOff = 123

// MIDI plays notes on a MIDI output port, e.g. a software synth or a
// keyboard with a sound engine.
type MIDI struct {
	mu       sync.Mutex
	send     func(msg midi.Message) error
	closer   func() error
	channel  uint8
	sounding map[uint8]struct{}
}

func newMIDI(send func(midi.Message) error, closer func() error, channel uint8) *MIDI {
	return &MIDI{
		send:     send,
		closer:   closer,
		channel:  channel,
		sounding: make(map[uint8]struct{}),
	}
}

// OpenMIDI opens the output port named portName, preferring an exact match
// over a substring match. channel is zero based.
func OpenMIDI(portName string, channel uint8) (*MIDI, error) {
	out, err := FindOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "opening midi output %s", out.String())
	}
	return newMIDI(send, out.Close, channel), nil
}

func FindOutPort(name string) (drivers.Out, error) {
	outs := midi.GetOutPorts()
	for _, out := range outs {
		if out.String() == name {
			return out, nil
		}
	}
	for _, out := range outs {
		if strings.Contains(out.String(), name) {
			return out, nil
		}
	}
	return nil, errors.Errorf("midi output not found: %q", name)
}

func (m *MIDI) SetProgram(program uint8) error {
	return m.send(midi.ProgramChange(m.channel, program))
}

func (m *MIDI) Play(p string, velocity uint8) error {
	key, err := pitch.ToMidi(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.send(midi.NoteOn(m.channel, key, velocity)); err != nil {
		return errors.Wrapf(err, "note on %s", p)
	}
	m.sounding[key] = struct{}{}
	return nil
}

func (m *MIDI) Stop(p string) error {
	key, err := pitch.ToMidi(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sounding, key)
	return errors.Wrapf(m.send(midi.NoteOff(m.channel, key)), "note off %s", p)
}

// StopAll sends a note off for every note it knows is sounding, then the
// "all notes off" controller for anything it missed.
func (m *MIDI) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for key := range m.sounding {
		if err := m.send(midi.NoteOff(m.channel, key)); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "note off")
		}
		delete(m.sounding, key)
	}
	if err := m.send(midi.ControlChange(m.channel, allNotesOff, 0)); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "all notes off")
	}
	return firstErr
}

func (m *MIDI) Close() error {
	stopErr := m.StopAll()
	if m.closer == nil {
		return stopErr
	}
	if err := m.closer(); err != nil {
		return err
	}
	return stopErr
}

// MIDILoader loads instruments by opening Port and switching it to the
// General MIDI program for the requested name.
type MIDILoader struct {
	Port    string
	Channel uint8
}

func (l MIDILoader) Load(ctx context.Context, name string) (Instrument, error) {
	program, err := Program(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := OpenMIDI(l.Port, l.Channel)
	if err != nil {
		return nil, err
	}
	if err := m.SetProgram(program); err != nil {
		_ = m.Close()
		return nil, errors.Wrapf(err, "selecting %s", name)
	}
	return m, nil
}
