package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/eventlog"
	"github.com/AbdelazizMoustafa10m/bacc/internal/logging"
	"github.com/AbdelazizMoustafa10m/bacc/internal/tui"
)

// calcFlags holds the parsed flags for the calc command.
type calcFlags struct {
	Rank        string
	Location    string
	CostShare   string
	Children    []string
	Scenario    string
	Endpoint    string
	Local       bool
	JSON        bool
	Interactive bool
	Breakdown   bool
}

var calcOpts calcFlags

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate the monthly childcare allowance",
	Long: `Calculate the monthly and annual childcare allowance for a family.

Values can be given as flags, loaded from a built-in scenario, or entered
interactively. Location and age accept the full label or its first word
("high", "preschool"). Each --child adds one child.

Examples:
  bacc calc --rank E-4 --location high --child preschool --child school
  bacc calc --scenario "Mid-Career NCO" --json
  bacc calc --interactive --local`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcOpts.Rank, "rank", "", "Pay grade, e.g. E-4 or O-3")
	f.StringVar(&calcOpts.Location, "location", "", "Duty location cost level (low, standard, high)")
	f.StringVar(&calcOpts.CostShare, "cost-share", "", "Family cost share percentage (default from config)")
	f.StringArrayVar(&calcOpts.Children, "child", nil, "Age category of a child (infant, toddler, preschool, school); repeatable")
	f.StringVar(&calcOpts.Scenario, "scenario", "", "Start from a built-in scenario (name or number)")
	f.StringVar(&calcOpts.Endpoint, "endpoint", "", "Calculation service URL (env: BACC_CALCULATOR_ENDPOINT)")
	f.BoolVar(&calcOpts.Local, "local", false, "Use the built-in tables instead of the calculation service")
	f.BoolVar(&calcOpts.JSON, "json", false, "Output the request and result as JSON")
	f.BoolVarP(&calcOpts.Interactive, "interactive", "i", false, "Enter the values in an interactive form")
	f.BoolVar(&calcOpts.Breakdown, "breakdown", false, "Show how each child's amount was derived")
	rootCmd.AddCommand(calcCmd)
}

// calcOutput is the JSON shape of `bacc calc --json`.
type calcOutput struct {
	Request     bacc.Request `json:"request"`
	Result      *bacc.Result `json:"result"`
	Displayable bool         `json:"displayable"`
}

func runCalc(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig(&config.CLIOverrides{
		CalculatorEndpoint: stringOverride(cmd, "endpoint", calcOpts.Endpoint),
		Local:              boolOverride(cmd, "local", calcOpts.Local),
	})
	if err != nil {
		return err
	}
	cfg := resolved.Config
	rec := newRecorder(cfg)

	form := bacc.NewForm(cfg.Calculator.DefaultCostShare)
	if err := applyCalcFlags(cmd, form, calcOpts, rec); err != nil {
		return err
	}

	if calcOpts.Interactive {
		if err := tui.RunCalcForm(form, tui.DefaultTheme(), rec.Calculator); err != nil {
			return err
		}
	}

	_, err = calculateAndPrint(cmd, cfg, form, rec, calcOpts.JSON, calcOpts.Breakdown)
	return err
}

// applyCalcFlags fills form from the scenario and the value flags, recording
// every change. Value flags override the scenario.
func applyCalcFlags(cmd *cobra.Command, form *bacc.Form, opts calcFlags, rec *eventlog.Recorder) error {
	if opts.Scenario != "" {
		s, ok := bacc.FindScenario(opts.Scenario)
		if !ok {
			return fmt.Errorf("unknown scenario %q; run `bacc scenarios` to list them", opts.Scenario)
		}
		if err := form.LoadScenario(s); err != nil {
			return err
		}
		rec.Calculator("load_scenario", "", s.Name)
	}

	if opts.Rank != "" {
		rank := strings.ToUpper(strings.TrimSpace(opts.Rank))
		if err := form.SetRank(rank); err != nil {
			return err
		}
		rec.Calculator("change", "rank", rank)
	}

	if opts.Location != "" {
		location, ok := matchChoice(opts.Location, bacc.Locations())
		if !ok {
			return fmt.Errorf("%w: %q (choose from %s)", bacc.ErrUnknownLocation, opts.Location, strings.Join(bacc.Locations(), ", "))
		}
		if err := form.SetLocation(location); err != nil {
			return err
		}
		rec.Calculator("change", "location", location)
	}

	if cmd.Flags().Changed("cost-share") {
		v := form.SetCostShare(opts.CostShare)
		rec.Calculator("change", "costShare", fmt.Sprint(v))
	}

	if len(opts.Children) > 0 {
		for _, c := range form.Children() {
			form.RemoveChild(c.ID)
		}
		for _, raw := range opts.Children {
			age, ok := matchChoice(raw, bacc.AgeCategories())
			if !ok {
				return fmt.Errorf("%w: %q (choose from %s)", bacc.ErrUnknownAge, raw, strings.Join(bacc.AgeCategories(), ", "))
			}
			id := form.AddChild()
			rec.Calculator("add_child", id, "")
			if err := form.SetChildAge(id, age); err != nil {
				return err
			}
			rec.Calculator("change", id, age)
		}
	}
	return nil
}

// calculateAndPrint runs the calculation for form and writes the result card
// or JSON to stdout. An incomplete form prints the prompt instead of failing.
func calculateAndPrint(cmd *cobra.Command, cfg *config.Config, form *bacc.Form, rec *eventlog.Recorder, asJSON, breakdown bool) (*bacc.Result, error) {
	out := cmd.OutOrStdout()
	req := form.Request()

	if flagDryRun {
		target := cfg.Calculator.Endpoint
		if cfg.Calculator.Local {
			target = "built-in tables"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "dry run: would calculate using %s\n", target)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return nil, enc.Encode(req)
	}

	var res *bacc.Result
	if form.Complete() {
		ctx, cancel := signalContext()
		defer cancel()

		var err error
		res, err = newCalculator(cfg).Calculate(ctx, req)
		switch {
		case errors.Is(err, bacc.ErrIncomplete):
			res = nil
		case err != nil:
			return nil, fmt.Errorf("calculating allowance: %w", err)
		}
		if res != nil {
			rec.Calculator("calculate", "totalMonthly", fmt.Sprint(res.TotalMonthly))
			logging.New(logging.ComponentCLI).Debug("calculated", "monthly", res.TotalMonthly, "children", len(req.Children))
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return res, enc.Encode(calcOutput{Request: req, Result: res, Displayable: res.Displayable(req)})
	}

	fmt.Fprintln(out, tui.RenderResult(tui.DefaultTheme(), req, res, breakdown))
	return res, nil
}

// matchChoice resolves input against choices, accepting the full label or
// its first word, case-insensitively.
func matchChoice(input string, choices []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	for _, c := range choices {
		if strings.EqualFold(c, input) {
			return c, true
		}
	}
	for _, c := range choices {
		first, _, _ := strings.Cut(c, " ")
		if strings.EqualFold(first, input) || strings.EqualFold(strings.TrimSuffix(first, "-age"), input) {
			return c, true
		}
	}
	return "", false
}
