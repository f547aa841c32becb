package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetDefaults restores the global default logger after a test.
func resetDefaults(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetOutput(os.Stderr)
		log.SetFormatter(log.TextFormatter)
	})
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    log.Level
	}{
		{name: "default", want: LevelInfo},
		{name: "verbose", verbose: true, want: LevelDebug},
		{name: "quiet", quiet: true, want: LevelError},
		{name: "quiet wins over verbose", verbose: true, quiet: true, want: LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetDefaults(t)
			Setup(tt.verbose, tt.quiet, false)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		quiet      bool
		emit       func(string)
		shouldShow bool
	}{
		{name: "debug hidden at info", emit: func(m string) { log.Debug(m) }},
		{name: "info shown at info", emit: func(m string) { log.Info(m) }, shouldShow: true},
		{name: "debug shown when verbose", verbose: true, emit: func(m string) { log.Debug(m) }, shouldShow: true},
		{name: "warn hidden when quiet", quiet: true, emit: func(m string) { log.Warn(m) }},
		{name: "error shown when quiet", quiet: true, emit: func(m string) { log.Error(m) }, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetDefaults(t)

			var buf bytes.Buffer
			Setup(tt.verbose, tt.quiet, false)
			SetOutput(&buf)
			tt.emit("survey submitted")

			if tt.shouldShow {
				assert.Contains(t, buf.String(), "survey submitted")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestSetup_JSONFormatter(t *testing.T) {
	resetDefaults(t)

	var buf bytes.Buffer
	Setup(false, false, true)
	SetOutput(&buf)

	New(ComponentSubmit).Info("survey delivered", "status", 201)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed), buf.String())
	assert.Equal(t, "info", parsed["level"])
	assert.Equal(t, "survey delivered", parsed["msg"])
	assert.Equal(t, ComponentSubmit, parsed["prefix"])
	assert.EqualValues(t, 201, parsed["status"])
}

func TestSetup_TextAfterJSON(t *testing.T) {
	resetDefaults(t)

	var buf bytes.Buffer
	Setup(false, false, true)
	Setup(false, false, false)
	SetOutput(&buf)
	log.Info("text mode")

	var parsed map[string]any
	assert.Error(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed))
	assert.Contains(t, buf.String(), "text mode")
}

func TestSetup_WritesToStderrNotStdout(t *testing.T) {
	resetDefaults(t)

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = origStdout })

	Setup(true, false, false)
	log.Debug("debug")
	log.Info("info")
	log.Error("error")
	w.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(r)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestNew_EmptyComponent(t *testing.T) {
	resetDefaults(t)

	var buf bytes.Buffer
	Setup(false, false, true)
	SetOutput(&buf)

	New("").Info("no prefix")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed))
	_, hasPrefix := parsed["prefix"]
	assert.False(t, hasPrefix)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Format
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: " JSON ", want: FormatJSON},
		{in: "yaml", want: FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseFormat(tt.in))
		})
	}
}
