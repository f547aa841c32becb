package bacc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$1,485.00", Money(1485))
	assert.Equal(t, "$24,948.00", Money(24948))
	assert.Equal(t, "$0.50", Money(0.5))
	assert.Equal(t, "-$156.00", Money(-156))
}

func TestMultiplier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.5x", Multiplier(1.5))
	assert.Equal(t, "1x", Multiplier(1.0))
	assert.Equal(t, "0.4x", Multiplier(0.4))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	f := NewForm(DefaultCostShare)
	require.NoError(t, f.LoadScenario(Scenarios()[0]))
	req := f.Request()
	res, err := LocalCalculator{}.Calculate(context.Background(), req)
	require.NoError(t, err)

	out := Summary(res, req)
	assert.Contains(t, out, "$2,079.00\n")
	assert.Contains(t, out, "Monthly Total • $24,948.00 Annual")
	assert.Contains(t, out, "Child 1 - Preschool (25-60 months): $1,485.00 / month")
	assert.Contains(t, out, "Child 2 - School-age (6-13 years): $594.00 / month")
}

func TestSummary_Incomplete(t *testing.T) {
	t.Parallel()

	assert.Equal(t, IncompletePrompt, Summary(nil, Request{}))
	assert.Equal(t, IncompletePrompt, Summary(&Result{TotalMonthly: 10}, Request{Rank: "E-1"}))
}
