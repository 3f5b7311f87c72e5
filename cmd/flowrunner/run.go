package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run test paths against the machine definition",
	Long: `Executes the selected cases: a single case (--suite and --case), every
case of a suite (--suite), or the whole path file. Routines are stubbed, so
the run checks model and path consistency end to end.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptionsFromFlags(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cli.Execute(ctx, opts, nil); err != nil {
			if !errors.Is(err, cli.ErrRunFailed) {
				fmt.Printf("Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func runOptionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	configFile, _ := cmd.Flags().GetString("config")
	definition, _ := cmd.Flags().GetString("definition")
	paths, _ := cmd.Flags().GetString("paths")
	suite, _ := cmd.Flags().GetString("suite")
	caseName, _ := cmd.Flags().GetString("case")
	debug, _ := cmd.Flags().GetBool("debug")

	return cli.RunOptions{
		ConfigFile: configFile,
		Definition: definition,
		Paths:      paths,
		Suite:      suite,
		Case:       caseName,
		Debug:      debug,
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("suite", "s", "", "Suite to run (default: all suites)")
	runCmd.Flags().String("case", "", "Single case to run (requires --suite)")
}
