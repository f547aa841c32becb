package config

import "time"

// Config is the top-level configuration structure mapping to bacc.toml.
type Config struct {
	Calculator CalculatorConfig `toml:"calculator"`
	Survey     SurveyConfig     `toml:"survey"`
	Events     EventsConfig     `toml:"events"`
	Server     ServerConfig     `toml:"server"`
}

// CalculatorConfig maps to the [calculator] section in bacc.toml.
type CalculatorConfig struct {
	Endpoint         string        `toml:"endpoint"`
	Timeout          time.Duration `toml:"timeout"`
	DefaultCostShare float64       `toml:"default_cost_share"`
	Local            bool          `toml:"local"`
}

// SurveyConfig maps to the [survey] section in bacc.toml.
type SurveyConfig struct {
	Endpoint string        `toml:"endpoint"`
	Timeout  time.Duration `toml:"timeout"`
	// Catalogue is a doublestar pattern of catalogue files. Empty selects
	// the built-in advocacy catalogue.
	Catalogue string `toml:"catalogue"`
}

// EventsConfig maps to the [events] section in bacc.toml.
type EventsConfig struct {
	File    string `toml:"file"`
	Enabled *bool  `toml:"enabled"`
}

// IsEnabled reports whether interactions are recorded. Unset means enabled.
func (e EventsConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// ServerConfig maps to the [server] section in bacc.toml.
type ServerConfig struct {
	Addr string `toml:"addr"`
}
