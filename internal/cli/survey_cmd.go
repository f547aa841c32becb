package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/logging"
	"github.com/AbdelazizMoustafa10m/bacc/internal/submit"
	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
	"github.com/AbdelazizMoustafa10m/bacc/internal/tui"
)

// eventBuffer is the capacity of the session event channel.
const eventBuffer = 64

var (
	surveyFlagCatalogue string
	surveyFlagEndpoint  string
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Take the advocacy survey",
	Long: `Run the advocacy survey in the terminal. Questions whose conditions
do not hold are hidden, and finishing the last page sends the answers to the
survey endpoint. Skipping or closing the survey sends nothing.

Use --catalogue to load questions from TOML files instead of the built-in
catalogue.`,
	Args: cobra.NoArgs,
	RunE: runSurvey,
}

var surveyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a survey catalogue",
	Long:  "Load the survey catalogue and report structural errors and warnings.",
	Args:  cobra.NoArgs,
	RunE:  runSurveyCheck,
}

func init() {
	surveyCmd.PersistentFlags().StringVar(&surveyFlagCatalogue, "catalogue", "", "Glob of catalogue TOML files (env: BACC_SURVEY_CATALOGUE)")
	surveyCmd.Flags().StringVar(&surveyFlagEndpoint, "endpoint", "", "Survey submission URL (env: BACC_SURVEY_ENDPOINT)")
	surveyCmd.AddCommand(surveyCheckCmd)
	rootCmd.AddCommand(surveyCmd)
}

func surveyOverrides(cmd *cobra.Command) *config.CLIOverrides {
	o := &config.CLIOverrides{}
	if f := cmd.Flags().Lookup("catalogue"); f != nil && f.Changed {
		o.Catalogue = &surveyFlagCatalogue
	}
	if f := cmd.Flags().Lookup("endpoint"); f != nil && f.Changed {
		o.SurveyEndpoint = &surveyFlagEndpoint
	}
	return o
}

func runSurvey(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig(surveyOverrides(cmd))
	if err != nil {
		return err
	}
	return takeSurvey(cmd, resolved.Config)
}

// takeSurvey loads and validates the catalogue, runs the survey screen and
// reports the delivery outcome on stderr.
func takeSurvey(cmd *cobra.Command, cfg *config.Config) error {
	cat, err := loadCatalogue(cfg.Survey.Catalogue)
	if err != nil {
		return err
	}
	if v := cat.Validate(); !v.IsValid() {
		return fmt.Errorf("survey catalogue %q is invalid:\n%s", cat.Name, v.String())
	}

	stderr := cmd.ErrOrStderr()
	if flagDryRun {
		fmt.Fprintf(stderr, "dry run: would run survey %q (%s) and send answers to %s\n",
			cat.Name, describeCatalogue(cat), endpointLabel(cfg.Survey.Endpoint))
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	tracker := &trackingSubmitter{next: newSubmitter(cfg)}
	events := make(chan survey.Event, eventBuffer)
	session := survey.NewSession(cat,
		survey.WithSubmitter(tracker),
		survey.WithEventChannel(events),
		survey.WithLogger(logging.New(logging.ComponentSurvey)),
	)

	// The channel is never closed: a submission still in flight after the
	// screen exits may emit late. Consume drains what is buffered on stop.
	recCtx, stopRecorder := context.WithCancel(context.Background())
	recorded := make(chan struct{})
	go func() {
		defer close(recorded)
		newRecorder(cfg).Consume(recCtx, events)
	}()

	session.Start()
	runErr := tui.RunSurvey(ctx, session, tui.DefaultTheme())

	stopRecorder()
	<-recorded

	if runErr != nil {
		return runErr
	}
	reportSurveyOutcome(stderr, tracker)
	return nil
}

func reportSurveyOutcome(w io.Writer, tracker *trackingSubmitter) {
	called, err := tracker.outcome()
	switch {
	case !called:
		fmt.Fprintln(w, "Survey closed. No answers were sent.")
	case errors.Is(err, submit.ErrNoEndpoint):
		fmt.Fprintln(w, "Thank you! No survey endpoint is configured, so your answers were not sent.")
	case err != nil:
		fmt.Fprintf(w, "Thank you! Your answers could not be delivered: %v\n", err)
	default:
		fmt.Fprintln(w, "Thank you! Your answers were sent.")
	}
}

func endpointLabel(endpoint string) string {
	if endpoint == "" {
		return "(no endpoint configured)"
	}
	return endpoint
}

func runSurveyCheck(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig(surveyOverrides(cmd))
	if err != nil {
		return err
	}
	cat, err := loadCatalogue(resolved.Config.Survey.Catalogue)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := resolved.Config.Survey.Catalogue
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("Catalogue %q (%s)", cat.Name, source)))
	fmt.Fprintln(out)
	for i, q := range cat.Questions {
		line := fmt.Sprintf("%2d. %-20s %-6s %s", i+1, q.ID, q.Kind, q.Title)
		fmt.Fprintln(out, line)
		if q.When != nil {
			fmt.Fprintf(out, "    when %s\n", q.When.String())
		}
	}
	fmt.Fprintln(out)

	v := cat.Validate()
	if len(v.Errors) == 0 && len(v.Warnings) == 0 {
		fmt.Fprintln(out, styleSuccess.Render("No issues found."))
		return nil
	}
	fmt.Fprint(out, v.String())
	if !v.IsValid() {
		return fmt.Errorf("catalogue has %d error(s)", len(v.Errors))
	}
	return nil
}

// runGuided is the root command: the interactive calculator, then an offer
// to take the survey once a result is shown.
func runGuided(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig(nil)
	if err != nil {
		return err
	}
	cfg := resolved.Config
	rec := newRecorder(cfg)

	form := bacc.NewForm(cfg.Calculator.DefaultCostShare)
	if err := tui.RunCalcForm(form, tui.DefaultTheme(), rec.Calculator); err != nil {
		if errors.Is(err, tui.ErrFormCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			return nil
		}
		return err
	}

	res, err := calculateAndPrint(cmd, cfg, form, rec, false, false)
	if err != nil {
		return err
	}
	if flagDryRun || !res.Displayable(form.Request()) {
		return nil
	}

	take, err := tui.Confirm("Help us advocate for military families?",
		"Take a short survey about childcare. It takes about two minutes.")
	if err != nil {
		if errors.Is(err, tui.ErrFormCancelled) {
			return nil
		}
		return err
	}
	if !take {
		return nil
	}
	return takeSurvey(cmd, cfg)
}

// describeCatalogue returns a one-line summary of a catalogue.
func describeCatalogue(cat *survey.Catalogue) string {
	conditional := 0
	for _, q := range cat.Questions {
		if q.When != nil {
			conditional++
		}
	}
	parts := []string{fmt.Sprintf("%d questions", len(cat.Questions))}
	if conditional > 0 {
		parts = append(parts, fmt.Sprintf("%d conditional", conditional))
	}
	return strings.Join(parts, ", ")
}
