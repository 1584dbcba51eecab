package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mid", "a.midi", "notes.json", "sub/c.mid"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	}

	paths, err := GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.midi"),
		filepath.Join(dir, "b.mid"),
		filepath.Join(dir, "sub/c.mid"),
	}, paths)

	paths, err = GatherAllMidiPaths(dir, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestGatherAllMidiPathsMissingDir(t *testing.T) {
	_, err := GatherAllMidiPaths(filepath.Join(t.TempDir(), "nope"), 0)
	assert.Error(t, err)
}

func TestGetKeysSorted(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, []int{1, 2, 3}, GetKeysSorted(m))
}

func TestJSONRoundTripThroughFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))

	var got map[string]int
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, map[string]int{"a": 1}, got)

	err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &got)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.25, Clamp(0.1, 0.25, 2.0))
	assert.Equal(2.0, Clamp(3.0, 0.25, 2.0))
	assert.Equal(1.5, Clamp(1.5, 0.25, 2.0))
	assert.Equal(uint64(6), Sum([]int{1, 2, 3}))
}
