package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jsphweid/eartrainer/catalog"
	"github.com/jsphweid/eartrainer/progress"
	"github.com/jsphweid/eartrainer/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Reports, per unit, how many melodies have stored notes, the score and the stars.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProgress(cmd.Context())
		if err != nil {
			return err
		}
		return report(cmd.Context(), p)
	},
}

func report(ctx context.Context, p progress.Store) error {
	s := openStore()
	var attemptCounts []int
	for _, u := range catalog.Units() {
		var stored int
		for _, m := range u.Melodies {
			if _, err := os.Stat(s.Path(u.ID, m.Number)); err == nil {
				stored++
			}
		}

		up, err := progress.Load(ctx, p, u)
		if err != nil {
			return err
		}
		attemptCounts = append(attemptCounts, len(up.Attempts))

		fmt.Printf("%s: %s\n", u.Title, u.Description)
		fmt.Printf("  stored notes: %d/%d\n", stored, len(u.Melodies))
		fmt.Printf("  score: %d (needs %d/%d/%d)\n", up.Score, u.RequiredScore.OneStar, u.RequiredScore.TwoStars, u.RequiredScore.ThreeStars)
		fmt.Printf("  stars: %d\n", up.Stars)
		fmt.Printf("  attempts: %d\n", len(up.Attempts))
	}
	fmt.Printf("total attempts: %v\n", util.Sum(attemptCounts))
	return nil
}
