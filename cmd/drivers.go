package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/db"
	"github.com/jsphweid/eartrainer/engine"
	"github.com/jsphweid/eartrainer/instrument"
	"github.com/jsphweid/eartrainer/progress"
	"github.com/jsphweid/eartrainer/store"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func closeDriver() {
	midi.CloseDriver()
}

func openStore() *store.Store {
	return store.New(cfg.MelodiesDir)
}

func openProgress(ctx context.Context) (progress.Store, error) {
	logger := log.FromContext(ctx)
	if cfg.DynamoTable == "" {
		logger.Debug("keeping progress in memory")
		return progress.NewMemory(), nil
	}
	logger.Debug("keeping progress in DynamoDB", "table", cfg.DynamoTable, "endpoint", cfg.DynamoEndpoint)
	return db.Connect(cfg.DynamoEndpoint, cfg.DynamoRegion, cfg.DynamoTable)
}

func newEngine(ctx context.Context) (*engine.Engine, error) {
	logger := log.FromContext(ctx)

	var loader instrument.Loader = instrument.MIDILoader{Port: cfg.MidiOut, Channel: cfg.Channel}
	if cfg.DryRun {
		loader = instrument.DryLoader{Logger: logger}
	}

	eng := engine.New(loader, engine.WithLogger(logger))
	if err := eng.SetPlaybackSpeed(cfg.Speed); err != nil {
		return nil, err
	}
	if err := eng.LoadInstrument(ctx, cfg.Instrument); err != nil {
		return nil, err
	}
	return eng, nil
}
