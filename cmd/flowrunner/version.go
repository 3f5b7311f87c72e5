package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowrunner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowrunner version %s\n", flowrunner.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
