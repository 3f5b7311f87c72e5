package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the machine graph as a Mermaid diagram",
	Long:  `Compiles the definition and prints a Mermaid diagram (graph TD) of its states, transitions, and multi-triggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		definition, _ := cmd.Flags().GetString("definition")
		if definition == "" && len(args) > 0 {
			definition = args[0]
		}
		if definition == "" {
			fmt.Println("Error: no machine definition given (flag --definition or argument)")
			os.Exit(1)
		}

		model, err := yamlfile.LoadDefinition(definition)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(model, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
