package cmd

import (
	"fmt"

	"github.com/jsphweid/eartrainer/instrument"
	"github.com/jsphweid/eartrainer/keyboard"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI ports and instruments",
	Long:  `Lists the MIDI inputs and outputs the driver can see and the instrument names --instrument accepts.`,
	Run: func(cmd *cobra.Command, args []string) {
		defer closeDriver()
		fmt.Println("inputs:")
		for _, name := range keyboard.ListInputs() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("outputs:")
		for _, name := range keyboard.ListOutputs() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("instruments:")
		for _, name := range instrument.Names() {
			program, _ := instrument.Program(name)
			fmt.Printf("  %-22s %-16s program %d\n", name, instrument.DisplayName(name), program)
		}
	},
}
