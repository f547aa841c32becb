package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
)

func TestInitCmd_Metadata(t *testing.T) {
	assert.Equal(t, "init [template]", initCmd.Use)
	assert.Contains(t, initCmd.Short, "bacc.toml")
	for _, name := range []string{"force", "calculator-endpoint", "survey-endpoint", "addr", "catalogue"} {
		assert.NotNil(t, initCmd.Flags().Lookup(name), "flag %q must be registered", name)
	}
}

func TestInitCmd_WritesStarterFiles(t *testing.T) {
	resetRootCmd(t)
	dir := chdirTemp(t)

	_, stderr, code := captureOutput(t, "init")

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stderr, `Initialized bacc from template "default"`)
	assert.Contains(t, stderr, config.ConfigFileName)
	assert.Contains(t, stderr, filepath.Join("surveys", "example.toml"))
	assert.Contains(t, stderr, "Next steps:")

	var cfg config.Config
	md, err := toml.DecodeFile(filepath.Join(dir, config.ConfigFileName), &cfg)
	require.NoError(t, err)
	assert.Empty(t, md.Undecoded(), "starter config must only use known keys")
	assert.Equal(t, config.DefaultCalculatorEndpoint, cfg.Calculator.Endpoint)
	assert.Equal(t, config.DefaultSurveyEndpoint, cfg.Survey.Endpoint)
	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, "surveys/**/*.toml", cfg.Survey.Catalogue)

	assert.FileExists(t, filepath.Join(dir, "surveys", "example.toml"))
}

func TestInitCmd_FlagValuesAreRendered(t *testing.T) {
	resetRootCmd(t)
	dir := chdirTemp(t)

	_, stderr, code := captureOutput(t, "init",
		"--survey-endpoint", "https://survey.example.org/api/survey-responses",
		"--addr", "127.0.0.1:8080",
	)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	var cfg config.Config
	_, err := toml.DecodeFile(filepath.Join(dir, config.ConfigFileName), &cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://survey.example.org/api/survey-responses", cfg.Survey.Endpoint)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, config.DefaultCalculatorEndpoint, cfg.Calculator.Endpoint)
}

func TestInitCmd_RefusesToOverwrite(t *testing.T) {
	resetRootCmd(t)
	dir := chdirTemp(t)
	path := writeConfig(t, dir, "# mine\n")

	_, stderr, code := captureOutput(t, "init")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")
	assert.Contains(t, stderr, "--force")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(content))
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	resetRootCmd(t)
	dir := chdirTemp(t)
	path := writeConfig(t, dir, "# mine\n")

	_, stderr, code := captureOutput(t, "init", "--force")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[calculator]")
}

func TestInitCmd_DryRunWritesNothing(t *testing.T) {
	resetRootCmd(t)
	dir := chdirTemp(t)

	_, stderr, code := captureOutput(t, "--dry-run", "init")

	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "dry run: would render template")
	assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_UnknownTemplate(t *testing.T) {
	resetRootCmd(t)
	chdirTemp(t)

	_, stderr, code := captureOutput(t, "init", "nope")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `template "nope" not found`)
	assert.Contains(t, stderr, config.DefaultTemplate)
}

func TestInitCmd_StarterConfigValidates(t *testing.T) {
	resetRootCmd(t)
	chdirTemp(t)

	_, stderr, code := captureOutput(t, "init")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	resetRootCmd(t)
	stdout, _, code := captureOutput(t, "config", "validate")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No issues found.")
}
