package config

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/constants"
	"github.com/jsphweid/eartrainer/instrument"
	"github.com/jsphweid/eartrainer/matcher"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "EARTRAINER"

// Keys double as flag names. EARTRAINER_MELODIES_DIR sets melodies-dir.
const (
	KeyAddr           = "addr"
	KeyMelodiesDir    = "melodies-dir"
	KeyLogLevel       = "log-level"
	KeyCORSOrigins    = "cors-origins"
	KeyDynamoEndpoint = "dynamo-endpoint"
	KeyDynamoRegion   = "dynamo-region"
	KeyDynamoTable    = "dynamo-table"
	KeyMidiOut        = "midi-out"
	KeyMidiIn         = "midi-in"
	KeyChannel        = "channel"
	KeyInstrument     = "instrument"
	KeySpeed          = "speed"
	KeyPolicy         = "policy"
	KeyReplayAfter    = "replay-after"
	KeyDryRun         = "dry-run"
)

type Config struct {
	Addr        string
	MelodiesDir string
	LogLevel    log.Level
	CORSOrigins []string

	// progress is kept in memory when DynamoTable is empty
	DynamoEndpoint string
	DynamoRegion   string
	DynamoTable    string

	MidiOut     string
	MidiIn      string
	Channel     uint8
	Instrument  string
	Speed       float64
	Policy      matcher.Policy
	ReplayAfter float64 // seconds
	DryRun      bool
}

// Flags registers every setting on fs with its default.
func Flags(fs *pflag.FlagSet) {
	fs.String(KeyAddr, constants.DefaultAddr, "address the API listens on")
	fs.String(KeyMelodiesDir, constants.DefaultMelodiesDir, "directory holding unit{n}/melody{n}_notes.json files")
	fs.String(KeyLogLevel, "info", "debug, info, warn or error")
	fs.StringSlice(KeyCORSOrigins, []string{"*"}, "origins allowed to call the API")
	fs.String(KeyDynamoEndpoint, "", "DynamoDB endpoint, e.g. http://localhost:8000")
	fs.String(KeyDynamoRegion, "us-east-1", "DynamoDB region")
	fs.String(KeyDynamoTable, "", "DynamoDB table for progress, empty keeps progress in memory")
	fs.String(KeyMidiOut, "", "MIDI output port used as the instrument")
	fs.String(KeyMidiIn, "", "MIDI input port the learner plays on")
	fs.Uint8(KeyChannel, 0, "MIDI channel, zero based")
	fs.String(KeyInstrument, constants.DefaultInstrument, "General MIDI instrument name")
	fs.Float64(KeySpeed, constants.DefaultPlaybackSpeed, "playback speed between 0.25 and 2")
	fs.String(KeyPolicy, matcher.Advance.String(), "what a wrong note does: advance or replace")
	fs.Float64(KeyReplayAfter, 2, "seconds of silence after a wrong note before the melody is replayed")
	fs.Bool(KeyDryRun, false, "log notes instead of sending them to a MIDI port")
}

// New returns a viper instance reading EARTRAINER_* variables and, when
// given, the flags in fs.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "binding flags")
		}
	}
	return v, nil
}

// ReadFile merges a yaml, toml or json config file into v. Flags and
// environment variables still win.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	return errors.Wrapf(v.ReadInConfig(), "reading config %s", path)
}

func Load(v *viper.Viper) (Config, error) {
	var c Config

	c.Addr = v.GetString(KeyAddr)
	c.MelodiesDir = v.GetString(KeyMelodiesDir)
	c.CORSOrigins = splitList(v.GetStringSlice(KeyCORSOrigins))
	c.DynamoEndpoint = v.GetString(KeyDynamoEndpoint)
	c.DynamoRegion = v.GetString(KeyDynamoRegion)
	c.DynamoTable = v.GetString(KeyDynamoTable)
	c.MidiOut = v.GetString(KeyMidiOut)
	c.MidiIn = v.GetString(KeyMidiIn)
	c.Instrument = v.GetString(KeyInstrument)
	c.Speed = v.GetFloat64(KeySpeed)
	c.ReplayAfter = v.GetFloat64(KeyReplayAfter)
	c.DryRun = v.GetBool(KeyDryRun)

	level, err := log.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return c, errors.Wrap(err, KeyLogLevel)
	}
	c.LogLevel = level

	channel := v.GetInt(KeyChannel)
	if channel < 0 || channel > 15 {
		return c, errors.Errorf("%s must be between 0 and 15, got %d", KeyChannel, channel)
	}
	c.Channel = uint8(channel)

	c.Policy, err = matcher.ParsePolicy(v.GetString(KeyPolicy))
	if err != nil {
		return c, err
	}

	if c.Speed < constants.MinPlaybackSpeed || c.Speed > constants.MaxPlaybackSpeed {
		return c, errors.Errorf("%s must be between %v and %v, got %v",
			KeySpeed, constants.MinPlaybackSpeed, constants.MaxPlaybackSpeed, c.Speed)
	}
	if _, err := instrument.Program(c.Instrument); err != nil {
		return c, err
	}
	if c.MelodiesDir == "" {
		return c, errors.Errorf("%s must not be empty", KeyMelodiesDir)
	}
	if c.ReplayAfter < 0 {
		return c, errors.Errorf("%s must not be negative", KeyReplayAfter)
	}

	return c, nil
}

// splitList also accepts the comma separated form an environment variable
// arrives in.
func splitList(in []string) []string {
	var res []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				res = append(res, part)
			}
		}
	}
	return res
}
