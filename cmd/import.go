package cmd

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/midi"
	"github.com/jsphweid/eartrainer/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.mid> <unitId> <melodyNumber>",
	Short: "Imports a MIDI file as a melody",
	Long:  `Converts the notes of a MIDI file and stores them as the notes of one melody, replacing what was there.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "unitId")
		}
		number, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "melodyNumber")
		}
		return importMidi(cmd.Context(), openStore(), args[0], unitID, number)
	},
}

func importMidi(ctx context.Context, s *store.Store, path string, unitID, number int) error {
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	seq, err := midi.ToSequence(mf)
	if err != nil {
		return errors.Wrapf(err, "converting %s", path)
	}
	if len(seq) == 0 {
		return errors.Errorf("%s has no notes", path)
	}
	if err := s.Replace(unitID, number, seq); err != nil {
		return err
	}
	log.FromContext(ctx).Info("imported", "file", path, "to", s.Path(unitID, number), "notes", len(seq))
	return nil
}
