package cmd

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/file"
	"github.com/jsphweid/eartrainer/store"
	"github.com/jsphweid/eartrainer/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <dir> <unitId> [maxNum]",
	Short: "Imports a directory of MIDI files as a unit",
	Long: `Imports every MIDI file under dir, in name order, as melodies 1, 2, 3...
of the unit. maxNum limits how many files are taken.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "unitId")
		}
		var maxNum int
		if len(args) == 3 {
			maxNum, err = strconv.Atoi(args[2])
			if err != nil {
				return errors.Wrap(err, "maxNum")
			}
		}
		return Index(cmd.Context(), cfg.MelodiesDir, args[0], unitID, maxNum)
	},
}

// Index imports the MIDI files under dir into the notes directory
// melodiesDir as melodies of unitID.
func Index(ctx context.Context, melodiesDir, dir string, unitID, maxNum int) error {
	logger := log.FromContext(ctx)

	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no MIDI files under %s", dir)
	}

	s := store.New(melodiesDir)
	numMap := file.CreateMelodyNumMap(paths)
	var failed int
	for _, n := range util.GetKeysSorted(numMap) {
		if err := importMidi(ctx, s, numMap[n], unitID, n); err != nil {
			logger.Warn("skipping", "file", numMap[n], "err", err)
			failed++
		}
	}
	logger.Info("indexed", "unit", unitID, "files", len(paths), "failed", failed)
	return nil
}
