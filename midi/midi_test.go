package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// reread writes s out and parses it back, as a file on disk would be.
func reread(t *testing.T, s *smf.SMF) *smf.SMF {
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	res, err := smf.ReadFrom(&buf)
	require.NoError(t, err)
	return res
}

func TestToSequencePairsNotesAcrossTracks(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)

	// default tempo is 120 bpm, 960 ticks = 500ms
	var melody smf.Track
	melody.Add(0, midi.NoteOn(0, 60, 90))
	melody.Add(960, midi.NoteOff(0, 60))
	melody.Add(0, midi.NoteOn(0, 64, 80))
	melody.Add(480, midi.NoteOn(0, 64, 0))
	melody.Close(0)
	require.NoError(t, s.Add(melody))

	var bass smf.Track
	bass.Add(480, midi.NoteOn(1, 48, 70))
	bass.Add(1920, midi.NoteOff(1, 48))
	bass.Add(0, midi.NoteOff(1, 50))
	bass.Close(0)
	require.NoError(t, s.Add(bass))

	seq, err := ToSequence(reread(t, s))
	require.NoError(t, err)
	require.Len(t, seq, 3)

	assert := assert.New(t)
	assert.Equal("C4", seq[0].Note)
	assert.InDelta(0, seq[0].StartTime, 0.01)
	assert.InDelta(500, seq[0].Duration, 0.01)
	assert.Equal(90, seq[0].Velocity)

	assert.Equal("C3", seq[1].Note)
	assert.InDelta(250, seq[1].StartTime, 0.01)
	assert.InDelta(1000, seq[1].Duration, 0.01)

	assert.Equal("E4", seq[2].Note)
	assert.InDelta(500, seq[2].StartTime, 0.01)
	assert.InDelta(250, seq[2].Duration, 0.01)
}

func TestToSequenceIgnoresRepeatedNoteOn(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(960, midi.NoteOn(0, 69, 100))
	tr.Add(960, midi.NoteOff(0, 69))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	seq, err := ToSequence(reread(t, s))
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.InDelta(t, 1000, seq[0].Duration, 0.01)
}

func TestReadMidiFileErrors(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.mid")
	require.NoError(t, os.WriteFile(path, []byte("not a midi file"), 0o644))
	_, err = ReadMidiFile(path)
	assert.Error(t, err)
}
