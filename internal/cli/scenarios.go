package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/tui"
)

var (
	scenariosFlagCalculate bool
	scenariosFlagLocal     bool
	scenariosFlagJSON      bool
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the example families",
	Long: `List the built-in example families. With --calculate, every scenario is
calculated concurrently with the configured default cost share and shown
side by side.

Load one into the calculator with: bacc calc --scenario NAME`,
	Args: cobra.NoArgs,
	RunE: runScenarios,
}

func init() {
	scenariosCmd.Flags().BoolVar(&scenariosFlagCalculate, "calculate", false, "Calculate every scenario")
	scenariosCmd.Flags().BoolVar(&scenariosFlagLocal, "local", false, "Use the built-in tables instead of the calculation service")
	scenariosCmd.Flags().BoolVar(&scenariosFlagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	all := bacc.Scenarios()

	if !scenariosFlagCalculate {
		if scenariosFlagJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		}
		for i, s := range all {
			fmt.Fprintf(out, "%d. %s\n", i+1, styleSection.Render(s.Name))
			fmt.Fprintf(out, "   %s • %s\n", s.Rank, s.Location)
			for _, age := range s.Ages {
				fmt.Fprintf(out, "   - %s\n", age)
			}
		}
		return nil
	}

	resolved, _, err := loadAndResolveConfig(&config.CLIOverrides{
		Local: boolOverride(cmd, "local", scenariosFlagLocal),
	})
	if err != nil {
		return err
	}
	cfg := resolved.Config

	ctx, cancel := signalContext()
	defer cancel()

	results, err := bacc.CalculateScenarios(ctx, newCalculator(cfg), all, cfg.Calculator.DefaultCostShare)
	if err != nil {
		return fmt.Errorf("calculating scenarios: %w", err)
	}

	if scenariosFlagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	fmt.Fprintln(out, tui.RenderScenarios(tui.DefaultTheme(), results))
	return nil
}
