package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
)

// scenarioBarWidth is the width of the monthly-total bar in the scenario
// table.
const scenarioBarWidth = 24

// RenderResult renders the result card for req. When the result is not
// displayable the card carries the "complete the form" prompt instead.
// showBreakdown adds the per-child derivation lines.
func RenderResult(theme Theme, req bacc.Request, res *bacc.Result, showBreakdown bool) string {
	if !res.Displayable(req) {
		return theme.Card.Render(theme.Prompt.Render(bacc.IncompletePrompt))
	}

	var sb strings.Builder
	sb.WriteString(theme.Total.Render(bacc.Money(res.TotalMonthly)))
	sb.WriteString("\n")
	sb.WriteString(theme.TotalLabel.Render("Monthly Total • " + bacc.Money(res.TotalAnnual) + " Annual"))
	sb.WriteString("\n")

	for i, c := range res.PerChild {
		sb.WriteString("\n")
		sb.WriteString(theme.ChildLabel.Render(fmt.Sprintf("Child %d - %s: ", i+1, childAge(c.Age))))
		sb.WriteString(theme.ChildAmount.Render(bacc.Money(c.Amount)))
		sb.WriteString(theme.Muted.Render(" / month"))
		if showBreakdown && c.Breakdown != nil {
			sb.WriteString("\n")
			sb.WriteString(renderBreakdown(theme, *c.Breakdown))
		}
	}

	return theme.Card.Render(sb.String())
}

func renderBreakdown(theme Theme, b bacc.Breakdown) string {
	lines := []string{
		"Base allowance   " + bacc.Money(b.BaseAllowance),
		"Location         " + bacc.Multiplier(b.GeoMultiplier),
		"Age              " + bacc.Multiplier(b.AgeMultiplier),
		"Before share     " + bacc.Money(b.BeforeCostShare),
		"Cost share       -" + bacc.Money(b.CostShareAmount()) + " (" + percent(b.CostShareDecimal) + ")",
	}
	return theme.Breakdown.Render(strings.Join(lines, "\n"))
}

// RenderScenarios renders one row per scenario with a bar scaled to the
// largest monthly total. Scenarios without a result show the prompt text.
func RenderScenarios(theme Theme, results []bacc.ScenarioResult) string {
	var maxTotal float64
	nameWidth := 0
	for _, r := range results {
		if r.Result != nil && r.Result.TotalMonthly > maxTotal {
			maxTotal = r.Result.TotalMonthly
		}
		if w := lipgloss.Width(r.Scenario.Name); w > nameWidth {
			nameWidth = w
		}
	}

	nameStyle := theme.ChildLabel.Width(nameWidth + 2)
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(nameStyle.Render(r.Scenario.Name))
		if !r.Result.Displayable(r.Request) {
			sb.WriteString(theme.Prompt.Render(bacc.IncompletePrompt))
			continue
		}
		filled := 0.0
		if maxTotal > 0 {
			filled = r.Result.TotalMonthly / maxTotal
		}
		sb.WriteString(theme.Bar(filled, scenarioBarWidth))
		sb.WriteString(" ")
		sb.WriteString(theme.Total.Render(bacc.Money(r.Result.TotalMonthly)))
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  %s • %s • %d children",
			r.Scenario.Rank, r.Scenario.Location, len(r.Scenario.Ages))))
	}
	return sb.String()
}

func percent(decimal float64) string {
	return strconv.FormatFloat(math.Round(decimal*10000)/100, 'f', -1, 64) + "%"
}

func childAge(age string) string {
	if age == "" {
		return "age not selected"
	}
	return age
}
