package cmd

import (
	"fmt"

	"github.com/jsphweid/eartrainer/constants"
	"github.com/jsphweid/eartrainer/engine"
	"github.com/jsphweid/eartrainer/midi"
	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect " + melodyArgsUsage,
	Short: "Prints the notes of a melody",
	Long:  `Prints the notes of a melody and when playback would end at --speed.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, ref, err := loadMelody(args)
		if err != nil {
			return err
		}
		inspect(seq, ref, cfg.Speed)
		return nil
	},
}

func inspect(seq model.Sequence, ref melodyRef, speed float64) {
	fmt.Printf("melody: %v\n", ref)
	fmt.Printf("key: %v\n", pitch.Key(model.Pitches(seq)))
	for _, line := range midi.Describe(seq) {
		fmt.Println(line)
	}
	if speed == 0 {
		speed = constants.DefaultPlaybackSpeed
	}
	complete := engine.CompletionOffset(seq, speed)
	end := engine.EndOffset(seq, speed)
	fmt.Printf("completion at %v, last note ends at %v (speed %v)\n", complete, end, speed)
	if complete < end {
		fmt.Println("warning: the last note is not the last to end, playback reports completion early")
	}
}
