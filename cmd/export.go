package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/sample"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <out.mid> " + melodyArgsUsage,
	Short: "Writes a melody to a MIDI file",
	Long:  `Writes a melody as a standard MIDI file at 120 bpm.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, ref, err := loadMelody(args[1:])
		if err != nil {
			return err
		}
		if err := sample.WriteFile(seq, args[0]); err != nil {
			return err
		}
		log.FromContext(cmd.Context()).Info("exported", "melody", ref, "file", args[0], "notes", len(seq))
		return nil
	},
}
