package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/cli"
	"github.com/rsmiech/flowrunner/internal/config"
	"github.com/rsmiech/flowrunner/internal/validator"
	"github.com/rsmiech/flowrunner"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the definition and path file for consistency",
	Long: `Compiles the machine definition, resolves every case in the path file
(inheritance included), and statically checks each resolved path against the
model. No routine is executed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Definition and paths are valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	definition, paths, err := resolveInputs(cmd)
	if err != nil {
		return err
	}

	model, err := yamlfile.LoadDefinition(definition)
	if err != nil {
		return err
	}
	runner, err := flowrunner.NewFromModel(model, cli.StubRegistry(model))
	if err != nil {
		return err
	}

	for _, finding := range validator.LintModel(model) {
		fmt.Printf("warning: %s\n", finding)
	}

	pf, err := yamlfile.LoadPaths(paths)
	if err != nil {
		return err
	}

	for _, suite := range pf.Suites() {
		for _, name := range pf.Cases(suite) {
			path, err := pf.Resolve(suite, name)
			if err != nil {
				return err
			}
			if err := runner.ValidatePath(path); err != nil {
				return fmt.Errorf("%s:%s: %w", suite, name, err)
			}
		}
	}
	return nil
}

// resolveInputs merges flags and config to find the definition and path
// files, mirroring the run command's precedence.
func resolveInputs(cmd *cobra.Command) (string, string, error) {
	configFile, _ := cmd.Flags().GetString("config")
	definition, _ := cmd.Flags().GetString("definition")
	paths, _ := cmd.Flags().GetString("paths")

	cfg, err := config.Load(configFile)
	if err != nil {
		return "", "", err
	}
	if definition == "" {
		definition = cfg.Definition
	}
	if paths == "" {
		paths = cfg.Paths
	}
	if definition == "" {
		return "", "", fmt.Errorf("no machine definition given (flag --definition or config key 'definition')")
	}
	if paths == "" {
		return "", "", fmt.Errorf("no path file given (flag --paths or config key 'paths')")
	}
	return definition, paths, nil
}
