package instrument

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

type sentMessages struct {
	msgs []midi.Message
	fail bool
}

func (s *sentMessages) send(msg midi.Message) error {
	if s.fail {
		return errors.New("port gone")
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func TestProgram(t *testing.T) {
	p, err := Program("violin")
	assert.NoError(t, err)
	assert.Equal(t, uint8(40), p)

	_, err = Program("theremin")
	assert.True(t, errors.Is(err, ErrUnknownInstrument))
}

func TestNamesAreInProgramOrder(t *testing.T) {
	names := Names()
	assert.Len(t, names, 8)
	assert.Equal(t, "acoustic_grand_piano", names[0])
	assert.Equal(t, "flute", names[len(names)-1])
	assert.Equal(t, "Classical Guitar", DisplayName("acoustic_guitar_nylon"))
}

func TestMIDIPlayAndStop(t *testing.T) {
	sent := &sentMessages{}
	m := newMIDI(sent.send, nil, 0)

	require.NoError(t, m.Play("C4", 100))
	require.NoError(t, m.Stop("C4"))

	assert.Equal(t, []midi.Message{
		midi.NoteOn(0, 60, 100),
		midi.NoteOff(0, 60),
	}, sent.msgs)
}

func TestMIDIPlayRejectsInvalidPitch(t *testing.T) {
	sent := &sentMessages{}
	m := newMIDI(sent.send, nil, 0)

	assert.Error(t, m.Play("c4", 100))
	assert.Empty(t, sent.msgs)
}

func TestMIDIStopAllReleasesSoundingNotes(t *testing.T) {
	sent := &sentMessages{}
	m := newMIDI(sent.send, nil, 2)
	require.NoError(t, m.Play("E4", 90))

	require.NoError(t, m.StopAll())

	assert.Equal(t, []midi.Message{
		midi.NoteOn(2, 64, 90),
		midi.NoteOff(2, 64),
		midi.ControlChange(2, allNotesOff, 0),
	}, sent.msgs)
}

func TestMIDICloseStopsAndClosesPort(t *testing.T) {
	sent := &sentMessages{}
	closed := false
	m := newMIDI(sent.send, func() error { closed = true; return nil }, 0)

	require.NoError(t, m.Close())
	assert.True(t, closed)
}

func TestMIDISendErrorsAreReturned(t *testing.T) {
	sent := &sentMessages{fail: true}
	m := newMIDI(sent.send, nil, 0)

	assert.Error(t, m.Play("C4", 100))
	assert.Error(t, m.StopAll())
}

func TestDryLoader(t *testing.T) {
	inst, err := DryLoader{}.Load(context.Background(), "flute")
	require.NoError(t, err)

	dry := inst.(*Dry)
	require.NoError(t, dry.Play("A4", 100))
	require.NoError(t, dry.Stop("A4"))
	require.NoError(t, dry.Close())

	assert.Equal(t, []string{"A4"}, dry.Played())
	assert.Equal(t, []string{"A4"}, dry.Stopped())
	assert.True(t, dry.Closed())

	_, err = DryLoader{}.Load(context.Background(), "kazoo")
	assert.True(t, errors.Is(err, ErrUnknownInstrument))
}
