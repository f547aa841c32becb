package bacc

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Scenario is a pre-filled example family.
type Scenario struct {
	Name     string   `json:"name"`
	Rank     string   `json:"rank"`
	Location string   `json:"location"`
	Ages     []string `json:"ages"`
}

// Scenarios returns the built-in example families.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:     "Junior Enlisted Family",
			Rank:     "E-4",
			Location: LocationHigh,
			Ages:     []string{AgePreschool, AgeSchool},
		},
		{
			Name:     "Mid-Career NCO",
			Rank:     "E-6",
			Location: LocationStandard,
			Ages:     []string{AgeInfant},
		},
		{
			Name:     "Officer with Multiple Children",
			Rank:     "O-3",
			Location: LocationHigh,
			Ages:     []string{AgeToddler, AgePreschool, AgeSchool},
		},
	}
}

// FindScenario looks a scenario up by case-insensitive name or by 1-based
// position.
func FindScenario(key string) (Scenario, bool) {
	all := Scenarios()
	for i, s := range all {
		if strings.EqualFold(s.Name, key) || fmt.Sprint(i+1) == key {
			return s, true
		}
	}
	return Scenario{}, false
}

// ScenarioResult pairs a scenario with its calculation.
type ScenarioResult struct {
	Scenario Scenario `json:"scenario"`
	Request  Request  `json:"request"`
	Result   *Result  `json:"result"`
}

// CalculateScenarios runs calc for every scenario concurrently with the
// given cost share. Results keep the input order. The first error cancels
// the remaining calculations.
func CalculateScenarios(ctx context.Context, calc Calculator, scenarios []Scenario, costShare float64) ([]ScenarioResult, error) {
	out := make([]ScenarioResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)

	for i, s := range scenarios {
		form := NewForm(costShare)
		if err := form.LoadScenario(s); err != nil {
			return nil, err
		}
		req := form.Request()
		out[i] = ScenarioResult{Scenario: s, Request: req}

		g.Go(func() error {
			res, err := calc.Calculate(gctx, req)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", s.Name, err)
			}
			out[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
