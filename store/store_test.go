package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jsphweid/eartrainer/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func vel(v int) *int { return &v }

func fullEdit(p string, start, dur float64, v int) model.NoteEdit {
	return model.NoteEdit{Note: str(p), StartTime: num(start), Duration: num(dur), Velocity: vel(v)}
}

func TestPath(t *testing.T) {
	s := New("/data/melodies")
	assert.Equal(t, filepath.Join("/data/melodies", "unit2", "melody7_notes.json"), s.Path(2, 7))
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load(1, 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveCreatesFile(t *testing.T) {
	s := New(t.TempDir())

	merged, err := s.Save(1, 3, []model.NoteEdit{
		fullEdit("C4", 0, 1000, 100),
		fullEdit("E4", 0, 1000, 100),
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	raw, err := os.ReadFile(s.Path(1, 3))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"notes"`)

	loaded, err := s.Load(1, 3)
	require.NoError(t, err)
	assert.Equal(t, merged, loaded)
}

func TestSaveMergesFieldByField(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Replace(1, 1, model.Sequence{
		{Note: "C4", StartTime: 0, Duration: 500, Velocity: 90},
		{Note: "E4", StartTime: 600, Duration: 500, Velocity: 90},
	}))

	merged, err := s.Save(1, 1, []model.NoteEdit{
		{Note: str("D4")},
		{Velocity: vel(110)},
		fullEdit("G4", 1200, 1000, 100),
	})
	require.NoError(t, err)

	assert.Equal(t, model.Sequence{
		{Note: "D4", StartTime: 0, Duration: 500, Velocity: 90},
		{Note: "E4", StartTime: 600, Duration: 500, Velocity: 110},
		{Note: "G4", StartTime: 1200, Duration: 1000, Velocity: 100},
	}, merged)
}

func TestSaveDropsStoredNotesPastTheEdits(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Replace(2, 1, model.Sequence{
		{Note: "C4", Duration: 500, Velocity: 90},
		{Note: "E4", Duration: 500, Velocity: 90},
		{Note: "G4", Duration: 500, Velocity: 90},
	}))

	merged, err := s.Save(2, 1, []model.NoteEdit{{Note: str("A4")}})
	require.NoError(t, err)

	assert.Equal(t, model.Sequence{{Note: "A4", Duration: 500, Velocity: 90}}, merged)
}

func TestSaveRejectsInvalidNotesWithoutWriting(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Replace(1, 2, model.Sequence{{Note: "C4", Duration: 500, Velocity: 90}}))

	_, err := s.Save(1, 2, []model.NoteEdit{{Note: str("c4")}})
	var invalid *InvalidNoteError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, invalid.Index)

	// a new position with no pitch at all is invalid too
	_, err = s.Save(1, 2, []model.NoteEdit{{Note: str("C4")}, {Velocity: vel(80)}})
	assert.Error(t, err)

	loaded, err := s.Load(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "C4", loaded[0].Note)
}

func TestLoadCorruptFile(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path(1, 1)), 0o755))
	require.NoError(t, os.WriteFile(s.Path(1, 1), []byte("{not json"), 0o644))

	_, err := s.Load(1, 1)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = s.Save(1, 1, []model.NoteEdit{fullEdit("C4", 0, 1000, 100)})
	assert.Error(t, err)
}

func TestConcurrentSavesAreSerialized(t *testing.T) {
	s := New(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Save(1, 1, []model.NoteEdit{fullEdit("C4", float64(i), 1000, 100)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := s.Load(1, 1)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestResolveFallsBackToBuiltin(t *testing.T) {
	s := New(t.TempDir())

	seq, err := s.Resolve(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"E4", "D4", "C4"}, model.Pitches(seq))

	require.NoError(t, s.Replace(1, 2, model.Sequence{{Note: "A4", Duration: 100, Velocity: 90}}))
	seq, err = s.Resolve(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A4"}, model.Pitches(seq))

	_, err = s.Resolve(1, 10)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveKeepsUnknownNoteFields(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path(1, 4)), 0o755))
	require.NoError(t, os.WriteFile(s.Path(1, 4), []byte(`{"notes": [
		{"note": "C4", "startTime": 0, "duration": 500, "velocity": 100, "lyric": "twin", "color": "#f00"},
		{"note": "C4", "startTime": 600, "duration": 500, "velocity": 100}
	]}`), 0o644))

	var edits []model.NoteEdit
	require.NoError(t, json.Unmarshal([]byte(`[{"note": "D4", "color": "#0f0"}, {"lyric": "kle"}]`), &edits))

	_, err := s.Save(1, 4, edits)
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path(1, 4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes": [
		{"note": "D4", "startTime": 0, "duration": 500, "velocity": 100, "lyric": "twin", "color": "#0f0"},
		{"note": "C4", "startTime": 600, "duration": 500, "velocity": 100, "lyric": "kle"}
	]}`, string(raw))

	seq, err := s.Load(1, 4)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`"twin"`), seq[0].Extra["lyric"])
}
