package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/engine"
	"github.com/jsphweid/eartrainer/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play " + melodyArgsUsage,
	Short: "Plays a melody",
	Long:  `Plays a melody on the configured MIDI output at --speed.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, ref, err := loadMelody(args)
		if err != nil {
			return err
		}
		return play(cmd.Context(), seq, ref)
	},
}

func play(ctx context.Context, seq model.Sequence, ref melodyRef) error {
	logger := log.FromContext(ctx)
	defer closeDriver()

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("playing", "melody", ref, "notes", len(seq), "speed", eng.PlaybackSpeed(),
		"length", engine.EndOffset(seq, eng.PlaybackSpeed()))
	s := eng.PlaySequence(seq)
	select {
	case <-s.Done():
	case <-ctx.Done():
		eng.Cancel(s)
		logger.Info("stopped")
	}
	return nil
}
