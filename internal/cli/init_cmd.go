package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
)

var (
	initFlagForce              bool
	initFlagCalculatorEndpoint string
	initFlagSurveyEndpoint     string
	initFlagAddr               string
	initFlagCatalogue          string
)

// initCmd implements "bacc init [template]". It writes a starter bacc.toml
// and an example survey catalogue into the working directory.
var initCmd = &cobra.Command{
	Use:   "init [template]",
	Short: "Write a starter bacc.toml and example survey",
	Long: `Write a starter bacc.toml and an example survey catalogue into the
working directory from an embedded template. Existing files are preserved
unless --force is supplied.

Examples:
  bacc init
  bacc init --survey-endpoint https://example.org/api/survey-responses
  bacc init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	defaults := config.DefaultTemplateVars()
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&initFlagCalculatorEndpoint, "calculator-endpoint", defaults.CalculatorEndpoint, "Calculation service URL written to bacc.toml")
	initCmd.Flags().StringVar(&initFlagSurveyEndpoint, "survey-endpoint", defaults.SurveyEndpoint, "Survey submission URL written to bacc.toml")
	initCmd.Flags().StringVar(&initFlagAddr, "addr", defaults.ServerAddr, "Dev server address written to bacc.toml")
	initCmd.Flags().StringVar(&initFlagCatalogue, "catalogue", defaults.Catalogue, "Catalogue glob written to bacc.toml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	templateName := config.DefaultTemplate
	if len(args) > 0 {
		templateName = args[0]
	}

	if !config.TemplateExists(templateName) {
		available, listErr := config.ListTemplates()
		if listErr != nil {
			return fmt.Errorf("listing available templates: %w", listErr)
		}
		return fmt.Errorf("template %q not found; available templates: %s",
			templateName, strings.Join(available, ", "))
	}

	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfgPath := filepath.Join(destDir, config.ConfigFileName)
	if _, statErr := os.Stat(cfgPath); statErr == nil && !initFlagForce {
		return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.ConfigFileName, destDir)
	}

	vars := config.TemplateVars{
		CalculatorEndpoint: initFlagCalculatorEndpoint,
		SurveyEndpoint:     initFlagSurveyEndpoint,
		ServerAddr:         initFlagAddr,
		Catalogue:          initFlagCatalogue,
	}

	stderr := cmd.ErrOrStderr()
	if flagDryRun {
		fmt.Fprintf(stderr, "dry run: would render template %q into %s\n", templateName, destDir)
		return nil
	}

	created, err := config.RenderTemplate(templateName, destDir, vars, initFlagForce)
	if err != nil {
		return fmt.Errorf("rendering template %q: %w", templateName, err)
	}

	fmt.Fprintf(stderr, "Initialized bacc from template %q\n\n", templateName)
	if len(created) > 0 {
		fmt.Fprintln(stderr, "Created files:")
		for _, f := range created {
			rel, relErr := filepath.Rel(destDir, f)
			if relErr != nil {
				rel = f
			}
			fmt.Fprintf(stderr, "  %s\n", rel)
		}
		fmt.Fprintln(stderr)
	}

	fmt.Fprintln(stderr, "Next steps:")
	fmt.Fprintf(stderr, "  1. Edit %s to point at your calculation and survey endpoints\n", config.ConfigFileName)
	fmt.Fprintln(stderr, "  2. Check the example survey: bacc survey check")
	fmt.Fprintln(stderr, "  3. Try it offline: bacc serve, then bacc calc --scenario 1")
	return nil
}
