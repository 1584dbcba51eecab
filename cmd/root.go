package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/config"
	"github.com/spf13/cobra"
)

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "eartrainer",
	Short: "Ear training: hear a melody, play it back",
	Long: `eartrainer plays short melodies through a MIDI instrument and checks
what you play back, either on a MIDI keyboard or through the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cmd.Flags())
		if err != nil {
			return err
		}
		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		logger := log.NewWithOptions(os.Stderr, log.Options{
			Level:           cfg.LogLevel,
			ReportTimestamp: true,
		})
		cmd.SetContext(log.WithContext(cmd.Context(), logger))
		return nil
	},
}

func init() {
	config.Flags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "yaml, toml or json config file")
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
