package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
)

// resetRootCmd resets all global flag values and Cobra's internal "Changed"
// tracking to pristine state, and isolates config resolution from the
// process environment. This must be called at the start of every test that
// invokes Execute() or manipulates rootCmd.
func resetRootCmd(t *testing.T) {
	t.Helper()
	flagVerbose = false
	flagQuiet = false
	flagConfig = ""
	flagDir = ""
	flagDryRun = false
	flagNoColor = false
	flagNoEvents = false

	calcOpts = calcFlags{}
	scenariosFlagCalculate = false
	scenariosFlagLocal = false
	scenariosFlagJSON = false
	surveyFlagCatalogue = ""
	surveyFlagEndpoint = ""
	serveFlagAddr = ""
	watchFlagURL = ""
	eventsFlagOutput = ""
	versionJSON = false

	defaults := config.DefaultTemplateVars()
	initFlagForce = false
	initFlagCalculatorEndpoint = defaults.CalculatorEndpoint
	initFlagSurveyEndpoint = defaults.SurveyEndpoint
	initFlagAddr = defaults.ServerAddr
	initFlagCatalogue = defaults.Catalogue

	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	resetChanged(rootCmd)

	lookupEnv = func(string) (string, bool) { return "", false }
	t.Cleanup(func() { lookupEnv = os.LookupEnv })
}

// resetChanged clears the "Changed" tracking of every flag in the command
// tree so env fallbacks and override detection start fresh.
func resetChanged(cmd *cobra.Command) {
	unset := func(f *pflag.Flag) { f.Changed = false }
	cmd.PersistentFlags().VisitAll(unset)
	cmd.Flags().VisitAll(unset)
	for _, child := range cmd.Commands() {
		resetChanged(child)
	}
}

// captureOutput runs Execute() with the provided args, capturing stdout and
// stderr. It returns (stdout, stderr, exitCode).
func captureOutput(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr
	rOut, wOut, err := os.Pipe()
	require.NoError(t, err)
	rErr, wErr, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = wOut
	os.Stderr = wErr
	t.Cleanup(func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	})

	rootCmd.SetArgs(args)

	code := Execute()

	wOut.Close()
	wErr.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	_, _ = stdoutBuf.ReadFrom(rOut)
	_, _ = stderrBuf.ReadFrom(rErr)

	os.Stdout = oldStdout
	os.Stderr = oldStderr

	return stdoutBuf.String(), stderrBuf.String(), code
}

// chdirTemp changes into a fresh temporary directory for the duration of the
// test and returns its path.
func chdirTemp(t *testing.T) string {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(orig) })

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	return dir
}

// writeConfig writes a bacc.toml with content into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// noopCmdName is the name of the test-only noop subcommand.
const noopCmdName = "__test_noop"

// addNoopCmd registers a minimal subcommand on rootCmd so PersistentPreRunE
// can be exercised without running the interactive root flow.
func addNoopCmd(t *testing.T) {
	t.Helper()
	noop := &cobra.Command{
		Use:    noopCmdName,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.AddCommand(noop)
	t.Cleanup(func() {
		rootCmd.RemoveCommand(noop)
	})
}

func TestRootCmd_Metadata(t *testing.T) {
	assert.Equal(t, "bacc", rootCmd.Use)
	assert.Equal(t, "Childcare allowance calculator and advocacy survey", rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "Basic Allowance for Child Care")
	assert.True(t, rootCmd.SilenceUsage, "SilenceUsage must be true")
	assert.True(t, rootCmd.SilenceErrors, "SilenceErrors must be true")
	assert.NotNil(t, rootCmd.RunE, "root runs the guided flow")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := []struct {
		flagName  string
		shorthand string
	}{
		{flagName: "verbose", shorthand: "v"},
		{flagName: "quiet", shorthand: "q"},
		{flagName: "config"},
		{flagName: "dir"},
		{flagName: "dry-run"},
		{flagName: "no-color"},
		{flagName: "no-events"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "persistent flag %q must be registered", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCmd_FlagUsageContainsEnvHints(t *testing.T) {
	tests := []struct {
		flagName string
		envHint  string
	}{
		{flagName: "verbose", envHint: "BACC_VERBOSE"},
		{flagName: "quiet", envHint: "BACC_QUIET"},
		{flagName: "no-color", envHint: "BACC_NO_COLOR"},
		{flagName: "no-color", envHint: "NO_COLOR"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName+"_"+tt.envHint, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag)
			assert.Contains(t, flag.Usage, tt.envHint)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"calc", "scenarios", "survey", "serve", "watch", "events", "config", "init", "version", "completion"} {
		assert.True(t, names[want], "subcommand %q must be registered", want)
	}
}

func TestExecute_UnknownSubcommand_ReturnsOne(t *testing.T) {
	resetRootCmd(t)

	_, stderr, code := captureOutput(t, "nonexistent-command")

	assert.Equal(t, 1, code, "unknown subcommand should return exit code 1")
	assert.Contains(t, stderr, "unknown command")
}

func TestExecute_HelpFlag_ReturnsZero(t *testing.T) {
	resetRootCmd(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})

	code := Execute()
	assert.Equal(t, 0, code)

	help := buf.String()
	assert.Contains(t, help, "Usage:")
	for _, flag := range []string{"--verbose", "--quiet", "--config", "--dir", "--dry-run", "--no-color", "--no-events", "-v", "-q"} {
		assert.Contains(t, help, flag, "help output should contain %q", flag)
	}
}

func TestPersistentPreRunE_Flags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T)
	}{
		{
			name:  "verbose",
			args:  []string{"--verbose"},
			check: func(t *testing.T) { assert.True(t, flagVerbose) },
		},
		{
			name:  "quiet",
			args:  []string{"--quiet"},
			check: func(t *testing.T) { assert.True(t, flagQuiet) },
		},
		{
			name:  "dry run",
			args:  []string{"--dry-run"},
			check: func(t *testing.T) { assert.True(t, flagDryRun) },
		},
		{
			name:  "no color",
			args:  []string{"--no-color"},
			check: func(t *testing.T) { assert.True(t, flagNoColor) },
		},
		{
			name:  "no events",
			args:  []string{"--no-events"},
			check: func(t *testing.T) { assert.True(t, flagNoEvents) },
		},
		{
			name:  "config path is stored, not loaded",
			args:  []string{"--config", "/does/not/exist/bacc.toml"},
			check: func(t *testing.T) { assert.Equal(t, "/does/not/exist/bacc.toml", flagConfig) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRootCmd(t)
			addNoopCmd(t)

			rootCmd.SetArgs(append(tt.args, noopCmdName))
			require.Equal(t, 0, Execute())
			tt.check(t)
		})
	}
}

func TestPersistentPreRunE_EnvFallbacks(t *testing.T) {
	tests := []struct {
		env   string
		check func() bool
	}{
		{env: "BACC_VERBOSE", check: func() bool { return flagVerbose }},
		{env: "BACC_QUIET", check: func() bool { return flagQuiet }},
		{env: "NO_COLOR", check: func() bool { return flagNoColor }},
		{env: "BACC_NO_COLOR", check: func() bool { return flagNoColor }},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			resetRootCmd(t)
			addNoopCmd(t)
			t.Setenv(tt.env, "1")

			rootCmd.SetArgs([]string{noopCmdName})
			require.Equal(t, 0, Execute())
			assert.True(t, tt.check(), "%s should set the matching flag", tt.env)
		})
	}
}

func TestPersistentPreRunE_DirFlag_ValidDirectory(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)

	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	tmpDir := t.TempDir()
	rootCmd.SetArgs([]string{"--dir", tmpDir, noopCmdName})
	require.Equal(t, 0, Execute())

	cwd, err := os.Getwd()
	require.NoError(t, err)
	resolvedCwd, err := filepath.EvalSymlinks(cwd)
	require.NoError(t, err)
	resolvedTmp, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, resolvedTmp, resolvedCwd)
}

func TestPersistentPreRunE_DirFlag_Invalid(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)

	file := filepath.Join(t.TempDir(), "not-a-dir.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	for _, dir := range []string{"/nonexistent/path/that/does/not/exist", file} {
		resetRootCmd(t)
		_, stderr, code := captureOutput(t, "--dir", dir, noopCmdName)
		assert.Equal(t, 1, code, "--dir %s should fail", dir)
		assert.Contains(t, stderr, "changing directory to")
	}
}
