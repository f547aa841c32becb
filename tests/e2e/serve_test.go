package e2e_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcAgainstDevServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	base := tp.startServer()
	tp.writeConfig(serverConfig(base))

	out := tp.runStdout("calc", "--json", "--rank", "E-4", "--location", "high",
		"--child", "preschool", "--child", "school")

	var got struct {
		Result struct {
			TotalMonthly float64 `json:"totalMonthly"`
			PerChild     []struct {
				Amount float64 `json:"amount"`
			} `json:"perChild"`
		} `json:"result"`
		Displayable bool `json:"displayable"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Displayable)
	require.Len(t, got.Result.PerChild, 2)
	// 1100 × 1.5 × (1.0 + 0.4) × 0.9
	assert.InDelta(t, 2079.0, got.Result.TotalMonthly, 0.001)
}

func TestScenariosAgainstDevServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	base := tp.startServer()
	tp.writeConfig(serverConfig(base))

	out := tp.runStdout("scenarios", "--calculate")
	assert.Contains(t, out, "Junior Enlisted Family")
	assert.Contains(t, out, "Officer with Multiple Children")
	assert.Contains(t, out, "$")
}

func TestCalcEventsExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	tp.runExpectSuccess("calc", "--local", "--scenario", "Mid-Career NCO")

	rows, err := csv.NewReader(strings.NewReader(tp.runStdout("events", "export"))).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"timestamp", "source", "action", "field", "value"}, rows[0])
	assert.Equal(t, "load_scenario", rows[1][2])
	assert.Equal(t, "calculate", rows[len(rows)-1][2])

	assert.Contains(t, tp.runExpectSuccess("events", "clear"), "Deleted")
	assert.Contains(t, tp.runExpectSuccess("events", "clear"), "already empty")
}
