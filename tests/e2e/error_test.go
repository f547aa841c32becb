package e2e_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownSubcommandFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	out, exitCode := tp.runExpectFailure("nonexistent-command")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "unknown command")
}

func TestInvalidConfigFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	tp.writeConfig("this is not valid toml ][")

	out, exitCode := tp.runExpectFailure("config", "debug")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "loading config")
}

func TestCalcUnreachableEndpointFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	out, exitCode := tp.runExpectFailure("--no-events", "calc",
		"--endpoint", "http://127.0.0.1:1/api/calculate-bacc", "--scenario", "1")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "calculating allowance")
}

func TestGlobalFlagsAccepted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	t.Parallel()

	tp := newTestProject(t)
	assert.Contains(t, tp.runExpectSuccess("--verbose", "version"), "bacc")
	assert.Contains(t, tp.runExpectSuccess("--no-color", "version"), "bacc")
	assert.Contains(t, tp.runExpectSuccess("--dry-run", "config", "debug"), "Configuration Debug")
}
