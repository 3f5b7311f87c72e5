package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowrunner",
	Short: "flowrunner replays declarative test paths against a state machine model",
	Long: `flowrunner reads a YAML machine definition (states, validations,
transitions) and a YAML path file (trigger sequences with data and
expectations), runs each path against the model, and reports every step
that diverged.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default .flowrunner.yaml)")
	rootCmd.PersistentFlags().StringP("definition", "d", "", "Machine definition YAML file")
	rootCmd.PersistentFlags().StringP("paths", "p", "", "Path file with test suites")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
