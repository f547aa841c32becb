package config

import (
	"strconv"
	"time"
)

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value came from built-in defaults.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the value came from the bacc.toml config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceCLI indicates the value came from a CLI flag.
	SourceCLI ConfigSource = "cli"
)

// Environment variables read by Resolve.
const (
	EnvCalculatorEndpoint = "BACC_CALCULATOR_ENDPOINT"
	EnvCalculatorLocal    = "BACC_CALCULATOR_LOCAL"
	EnvSurveyEndpoint     = "BACC_SURVEY_ENDPOINT"
	EnvSurveyCatalogue    = "BACC_SURVEY_CATALOGUE"
	EnvEventsFile         = "BACC_EVENTS_FILE"
	EnvEventsEnabled      = "BACC_EVENTS_ENABLED"
	EnvServerAddr         = "BACC_SERVER_ADDR"
)

// ResolvedConfig holds the fully-resolved configuration with source tracking.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource // key is dotted path, e.g., "survey.endpoint"
	Path    string                  // path to the config file used (empty if none)
}

// CLIOverrides captures flag values that can override configuration. A nil
// pointer means "not set".
type CLIOverrides struct {
	CalculatorEndpoint *string
	Local              *bool
	SurveyEndpoint     *string
	Catalogue          *string
	EventsFile         *string
	NoEvents           *bool
	ServerAddr         *string
}

// EnvFunc is a function that looks up environment variables.
// Default implementation is os.LookupEnv. Injected for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
//
// Empty strings, zero durations and a zero cost share in the file mean "not
// set". A boolean environment variable that does not parse is ignored.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) *ResolvedConfig {
	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	resolveDefaults(rc, defaults)
	if fileConfig != nil {
		resolveFile(rc, fileConfig)
	}
	resolveFromEnv(rc, envFn)
	resolveFromCLI(rc, overrides)

	return rc
}

// --- Layer 1: Defaults ---

func resolveDefaults(rc *ResolvedConfig, d *Config) {
	c := rc.Config
	src := rc.Sources

	setString(&c.Calculator.Endpoint, d.Calculator.Endpoint, "calculator.endpoint", SourceDefault, src)
	setDuration(&c.Calculator.Timeout, d.Calculator.Timeout, "calculator.timeout", SourceDefault, src)
	c.Calculator.DefaultCostShare = d.Calculator.DefaultCostShare
	src["calculator.default_cost_share"] = SourceDefault
	c.Calculator.Local = d.Calculator.Local
	src["calculator.local"] = SourceDefault

	setString(&c.Survey.Endpoint, d.Survey.Endpoint, "survey.endpoint", SourceDefault, src)
	setDuration(&c.Survey.Timeout, d.Survey.Timeout, "survey.timeout", SourceDefault, src)
	setString(&c.Survey.Catalogue, d.Survey.Catalogue, "survey.catalogue", SourceDefault, src)

	setString(&c.Events.File, d.Events.File, "events.file", SourceDefault, src)
	setBool(&c.Events.Enabled, d.Events.IsEnabled(), "events.enabled", SourceDefault, src)

	setString(&c.Server.Addr, d.Server.Addr, "server.addr", SourceDefault, src)
}

// --- Layer 2: File ---

func resolveFile(rc *ResolvedConfig, f *Config) {
	c := rc.Config
	src := rc.Sources

	mergeString(&c.Calculator.Endpoint, f.Calculator.Endpoint, "calculator.endpoint", SourceFile, src)
	mergeDuration(&c.Calculator.Timeout, f.Calculator.Timeout, "calculator.timeout", SourceFile, src)
	if f.Calculator.DefaultCostShare != 0 {
		c.Calculator.DefaultCostShare = f.Calculator.DefaultCostShare
		src["calculator.default_cost_share"] = SourceFile
	}
	if f.Calculator.Local {
		c.Calculator.Local = true
		src["calculator.local"] = SourceFile
	}

	mergeString(&c.Survey.Endpoint, f.Survey.Endpoint, "survey.endpoint", SourceFile, src)
	mergeDuration(&c.Survey.Timeout, f.Survey.Timeout, "survey.timeout", SourceFile, src)
	mergeString(&c.Survey.Catalogue, f.Survey.Catalogue, "survey.catalogue", SourceFile, src)

	mergeString(&c.Events.File, f.Events.File, "events.file", SourceFile, src)
	if f.Events.Enabled != nil {
		setBool(&c.Events.Enabled, *f.Events.Enabled, "events.enabled", SourceFile, src)
	}

	mergeString(&c.Server.Addr, f.Server.Addr, "server.addr", SourceFile, src)
}

// --- Layer 3: Environment ---

// Environment variable mapping:
//
//	BACC_CALCULATOR_ENDPOINT -> calculator.endpoint
//	BACC_CALCULATOR_LOCAL    -> calculator.local
//	BACC_SURVEY_ENDPOINT     -> survey.endpoint
//	BACC_SURVEY_CATALOGUE    -> survey.catalogue
//	BACC_EVENTS_FILE         -> events.file
//	BACC_EVENTS_ENABLED      -> events.enabled
//	BACC_SERVER_ADDR         -> server.addr
func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) {
	c := rc.Config

	if val, ok := envFn(EnvCalculatorEndpoint); ok {
		c.Calculator.Endpoint = val
		rc.Sources["calculator.endpoint"] = SourceEnv
	}
	if val, ok := envFn(EnvCalculatorLocal); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Calculator.Local = b
			rc.Sources["calculator.local"] = SourceEnv
		}
	}
	if val, ok := envFn(EnvSurveyEndpoint); ok {
		c.Survey.Endpoint = val
		rc.Sources["survey.endpoint"] = SourceEnv
	}
	if val, ok := envFn(EnvSurveyCatalogue); ok {
		c.Survey.Catalogue = val
		rc.Sources["survey.catalogue"] = SourceEnv
	}
	if val, ok := envFn(EnvEventsFile); ok {
		c.Events.File = val
		rc.Sources["events.file"] = SourceEnv
	}
	if val, ok := envFn(EnvEventsEnabled); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			setBool(&c.Events.Enabled, b, "events.enabled", SourceEnv, rc.Sources)
		}
	}
	if val, ok := envFn(EnvServerAddr); ok {
		c.Server.Addr = val
		rc.Sources["server.addr"] = SourceEnv
	}
}

// --- Layer 4: CLI overrides ---

func resolveFromCLI(rc *ResolvedConfig, o *CLIOverrides) {
	c := rc.Config

	if o.CalculatorEndpoint != nil {
		c.Calculator.Endpoint = *o.CalculatorEndpoint
		rc.Sources["calculator.endpoint"] = SourceCLI
	}
	if o.Local != nil {
		c.Calculator.Local = *o.Local
		rc.Sources["calculator.local"] = SourceCLI
	}
	if o.SurveyEndpoint != nil {
		c.Survey.Endpoint = *o.SurveyEndpoint
		rc.Sources["survey.endpoint"] = SourceCLI
	}
	if o.Catalogue != nil {
		c.Survey.Catalogue = *o.Catalogue
		rc.Sources["survey.catalogue"] = SourceCLI
	}
	if o.EventsFile != nil {
		c.Events.File = *o.EventsFile
		rc.Sources["events.file"] = SourceCLI
	}
	if o.NoEvents != nil && *o.NoEvents {
		setBool(&c.Events.Enabled, false, "events.enabled", SourceCLI, rc.Sources)
	}
	if o.ServerAddr != nil {
		c.Server.Addr = *o.ServerAddr
		rc.Sources["server.addr"] = SourceCLI
	}
}

// --- Helpers ---

// setString unconditionally sets the target to the given value and records the source.
func setString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[path] = source
}

// mergeString overwrites the target only if value is non-empty.
func mergeString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

func setDuration(target *time.Duration, value time.Duration, path string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[path] = source
}

func mergeDuration(target *time.Duration, value time.Duration, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != 0 {
		*target = value
		sources[path] = source
	}
}

// setBool stores a fresh pointer so the resolved config never aliases the
// layer it was read from.
func setBool(target **bool, value bool, path string, source ConfigSource, sources map[string]ConfigSource) {
	v := value
	*target = &v
	sources[path] = source
}
