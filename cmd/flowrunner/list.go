package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the suites and cases of a path file",
	Run: func(cmd *cobra.Command, args []string) {
		paths, _ := cmd.Flags().GetString("paths")
		if paths == "" && len(args) > 0 {
			paths = args[0]
		}
		if paths == "" {
			fmt.Println("Error: no path file given (flag --paths or argument)")
			os.Exit(1)
		}

		pf, err := yamlfile.LoadPaths(paths)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		for _, suite := range pf.Suites() {
			fmt.Println(suite)
			for _, name := range pf.Cases(suite) {
				fmt.Printf("  %s\n", name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
