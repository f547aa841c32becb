package bacc

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// IncompletePrompt is shown instead of a result when the form is not ready.
const IncompletePrompt = "Complete the form above to see your BACC calculation."

// Money formats an amount as dollars with thousands separators and cents,
// e.g. "$1,485.00".
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Multiplier formats a table multiplier, e.g. "1.5x".
func Multiplier(v float64) string {
	return humanize.Ftoa(v) + "x"
}

// Summary returns the plain-text result block: the monthly total, the
// annual line and one line per child.
func Summary(r *Result, req Request) string {
	if !r.Displayable(req) {
		return IncompletePrompt
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Money(r.TotalMonthly))
	fmt.Fprintf(&b, "Monthly Total • %s Annual\n", Money(r.TotalAnnual))
	for i, c := range r.PerChild {
		fmt.Fprintf(&b, "Child %d - %s: %s / month\n", i+1, ageLabel(c.Age), Money(c.Amount))
	}
	return b.String()
}

func ageLabel(age string) string {
	if age == "" {
		return "age not selected"
	}
	return age
}
