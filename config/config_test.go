package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/constants"
	"github.com/jsphweid/eartrainer/matcher"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func load(t *testing.T, args ...string) (Config, error) {
	v, err := New(newFlags(t, args...))
	require.NoError(t, err)
	return Load(v)
}

func TestDefaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(constants.DefaultAddr, c.Addr)
	assert.Equal(constants.DefaultMelodiesDir, c.MelodiesDir)
	assert.Equal(log.InfoLevel, c.LogLevel)
	assert.Equal([]string{"*"}, c.CORSOrigins)
	assert.Equal(constants.DefaultInstrument, c.Instrument)
	assert.Equal(constants.DefaultPlaybackSpeed, c.Speed)
	assert.Equal(matcher.Advance, c.Policy)
	assert.Equal(2.0, c.ReplayAfter)
	assert.Empty(c.DynamoTable)
	assert.False(c.DryRun)
}

func TestFlags(t *testing.T) {
	c, err := load(t, "--speed=0.5", "--policy=replace", "--log-level=debug", "--channel=9", "--dry-run")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(0.5, c.Speed)
	assert.Equal(matcher.Replace, c.Policy)
	assert.Equal(log.DebugLevel, c.LogLevel)
	assert.Equal(uint8(9), c.Channel)
	assert.True(c.DryRun)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("EARTRAINER_MELODIES_DIR", "/srv/melodies")
	t.Setenv("EARTRAINER_CORS_ORIGINS", "http://localhost:3000, https://example.com")
	t.Setenv("EARTRAINER_DYNAMO_TABLE", "progress")

	c, err := load(t)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("/srv/melodies", c.MelodiesDir)
	assert.Equal([]string{"http://localhost:3000", "https://example.com"}, c.CORSOrigins)
	assert.Equal("progress", c.DynamoTable)
}

func TestFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("EARTRAINER_ADDR", ":9000")
	c, err := load(t, "--addr=:7000")
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eartrainer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instrument: violin\nspeed: 1.5\n"), 0o644))

	v, err := New(newFlags(t))
	require.NoError(t, err)
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "violin", c.Instrument)
	assert.Equal(t, 1.5, c.Speed)

	assert.Error(t, ReadFile(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--speed=3"},
		{"--speed=0.1"},
		{"--policy=skip"},
		{"--log-level=loud"},
		{"--channel=16"},
		{"--instrument=kazoo"},
		{"--melodies-dir="},
		{"--replay-after=-1"},
	} {
		_, err := load(t, args...)
		assert.Error(t, err, args)
	}
}
