package config

import "time"

// Default values used when neither bacc.toml, the environment nor flags set
// a field.
const (
	DefaultCalculatorEndpoint = "http://localhost:5050/api/calculate-bacc"
	DefaultSurveyEndpoint     = "http://localhost:5050/api/survey-responses"
	DefaultTimeout            = 30 * time.Second
	DefaultCostShare          = 10.0
	DefaultEventsFile         = ".bacc/events.jsonl"
	DefaultServerAddr         = ":5050"
)

// NewDefaults returns a Config populated with all default values.
func NewDefaults() *Config {
	enabled := true
	return &Config{
		Calculator: CalculatorConfig{
			Endpoint:         DefaultCalculatorEndpoint,
			Timeout:          DefaultTimeout,
			DefaultCostShare: DefaultCostShare,
		},
		Survey: SurveyConfig{
			Endpoint: DefaultSurveyEndpoint,
			Timeout:  DefaultTimeout,
		},
		Events: EventsConfig{
			File:    DefaultEventsFile,
			Enabled: &enabled,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}
