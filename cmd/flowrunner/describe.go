package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/presentation/report"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Render the machine definition as readable documentation",
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

		markdown := report.ModelMarkdown(model)

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			fmt.Print(markdown)
			return
		}

		render := report.NewMarkdownRenderer()
		out, err := render(markdown)
		if err != nil {
			// Fall back to raw markdown on rendering trouble.
			fmt.Print(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
}
