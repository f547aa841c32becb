package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates the configuration works but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "survey.endpoint"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors()) > 0
}

// HasWarnings returns true if any issue has warning severity.
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings()) > 0
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	return vr.filter(SeverityError)
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	return vr.filter(SeverityWarning)
}

func (vr *ValidationResult) filter(sev ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// Validate checks the configuration for correctness. meta is the TOML
// metadata of the loaded file and may be nil when no file was loaded; it is
// used to report unknown keys as warnings.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	validateCalculator(vr, &cfg.Calculator)
	validateSurvey(vr, &cfg.Survey)
	validateEvents(vr, &cfg.Events)
	validateServer(vr, &cfg.Server)
	validateUnknownKeys(vr, meta)

	return vr
}

func validateCalculator(vr *ValidationResult, c *CalculatorConfig) {
	if c.Endpoint == "" {
		if !c.Local {
			addError(vr, "calculator.endpoint", "must not be empty unless calculator.local is set")
		}
	} else {
		validateURL(vr, "calculator.endpoint", c.Endpoint)
	}

	if c.Timeout < 0 {
		addError(vr, "calculator.timeout", fmt.Sprintf("must not be negative, got %s", c.Timeout))
	}

	if c.DefaultCostShare < 0 || c.DefaultCostShare > 100 {
		addError(vr, "calculator.default_cost_share",
			fmt.Sprintf("must be between 0 and 100, got %v", c.DefaultCostShare))
	}
}

func validateSurvey(vr *ValidationResult, s *SurveyConfig) {
	if s.Endpoint == "" {
		addWarning(vr, "survey.endpoint", "not set; completed surveys will not be delivered")
	} else {
		validateURL(vr, "survey.endpoint", s.Endpoint)
	}

	if s.Timeout < 0 {
		addError(vr, "survey.timeout", fmt.Sprintf("must not be negative, got %s", s.Timeout))
	}

	if s.Catalogue == "" {
		return
	}
	pattern := filepath.ToSlash(s.Catalogue)
	if !doublestar.ValidatePattern(pattern) {
		addError(vr, "survey.catalogue", fmt.Sprintf("invalid glob pattern %q", s.Catalogue))
		return
	}
	matches, err := doublestar.FilepathGlob(s.Catalogue, doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		addWarning(vr, "survey.catalogue", fmt.Sprintf("pattern %q matches no files", s.Catalogue))
	}
}

func validateEvents(vr *ValidationResult, e *EventsConfig) {
	if e.IsEnabled() && e.File == "" {
		addError(vr, "events.file", "must not be empty while events.enabled is true")
	}
}

func validateServer(vr *ValidationResult, s *ServerConfig) {
	if s.Addr == "" {
		addError(vr, "server.addr", "must not be empty")
		return
	}
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		addError(vr, "server.addr", fmt.Sprintf("invalid listen address %q: %v", s.Addr, err))
	}
}

// validateURL requires an absolute http or https URL with a host.
func validateURL(vr *ValidationResult, field, raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		addError(vr, field, fmt.Sprintf("invalid URL %q: %v", raw, err))
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		addError(vr, field, fmt.Sprintf("unsupported scheme %q; must be http or https", u.Scheme))
		return
	}
	if u.Host == "" {
		addError(vr, field, fmt.Sprintf("URL %q has no host", raw))
	}
}

// validateUnknownKeys checks for TOML keys that did not map to any config struct field.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}
	for _, key := range meta.Undecoded() {
		addWarning(vr, strings.Join(key, "."), "unknown configuration key")
	}
}

func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityError, Field: field, Message: message})
}

func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityWarning, Field: field, Message: message})
}
