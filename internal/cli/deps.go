package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/eventlog"
	"github.com/AbdelazizMoustafa10m/bacc/internal/logging"
	"github.com/AbdelazizMoustafa10m/bacc/internal/submit"
	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

// lookupEnv is the environment lookup used for config resolution. Tests
// replace it to avoid touching the process environment.
var lookupEnv config.EnvFunc = os.LookupEnv

// loadAndResolveConfig loads bacc.toml (the --config path, or the nearest
// one found walking up from the working directory) and layers the
// environment and overrides on top of it. It returns the resolved config
// and the TOML metadata, which is nil when no file was found.
func loadAndResolveConfig(overrides *config.CLIOverrides) (*config.ResolvedConfig, *toml.MetaData, error) {
	if overrides == nil {
		overrides = &config.CLIOverrides{}
	}
	if flagNoEvents {
		noEvents := true
		overrides.NoEvents = &noEvents
	}

	fileCfg, meta, path, err := config.Discover(".", flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	resolved := config.Resolve(config.NewDefaults(), fileCfg, lookupEnv, overrides)
	resolved.Path = path
	return resolved, meta, nil
}

// stringOverride returns a pointer to value when the named flag was set on
// the command line, nil otherwise.
func stringOverride(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// boolOverride is stringOverride for boolean flags.
func boolOverride(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// newCalculator returns the local calculator or an HTTP client for the
// configured endpoint.
func newCalculator(cfg *config.Config) bacc.Calculator {
	if cfg.Calculator.Local {
		return bacc.LocalCalculator{}
	}
	return bacc.NewClient(cfg.Calculator.Endpoint,
		bacc.WithTimeout(cfg.Calculator.Timeout),
		bacc.WithLogger(logging.New(logging.ComponentBacc)),
	)
}

// newSubmitter returns the survey submission client.
func newSubmitter(cfg *config.Config) *submit.Client {
	return submit.New(cfg.Survey.Endpoint,
		submit.WithTimeout(cfg.Survey.Timeout),
		submit.WithLogger(logging.New(logging.ComponentSubmit)),
	)
}

// newEventStore returns the event log store, or nil when the log is
// disabled.
func newEventStore(cfg *config.Config) *eventlog.Store {
	if !cfg.Events.IsEnabled() || cfg.Events.File == "" {
		return nil
	}
	return eventlog.NewStore(cfg.Events.File)
}

// newRecorder returns a recorder for the event log. The recorder is a no-op
// when the log is disabled or --dry-run is set.
func newRecorder(cfg *config.Config) *eventlog.Recorder {
	if flagDryRun {
		return nil
	}
	store := newEventStore(cfg)
	if store == nil {
		return nil
	}
	return eventlog.NewRecorder(store, logging.New(logging.ComponentEventLog))
}

// loadCatalogue loads the catalogue files matched by pattern, or returns the
// built-in catalogue when pattern is empty.
func loadCatalogue(pattern string) (*survey.Catalogue, error) {
	if pattern == "" {
		return survey.DefaultCatalogue(), nil
	}
	cat, err := survey.LoadCatalogue(pattern)
	if err != nil {
		return nil, fmt.Errorf("loading survey catalogue: %w", err)
	}
	return cat, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// trackingSubmitter remembers the outcome of the submission it forwards so
// the command can report it after the survey screen closes.
type trackingSubmitter struct {
	next survey.Submitter

	mu     sync.Mutex
	called bool
	err    error
}

var _ survey.Submitter = (*trackingSubmitter)(nil)

func (t *trackingSubmitter) Submit(ctx context.Context, s survey.Submission) error {
	err := t.next.Submit(ctx, s)
	t.mu.Lock()
	t.called = true
	t.err = err
	t.mu.Unlock()
	return err
}

// outcome reports whether a submission was attempted and its error.
func (t *trackingSubmitter) outcome() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.called, t.err
}
