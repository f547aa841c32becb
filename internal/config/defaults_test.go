package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	cfg := NewDefaults()
	require.NotNil(t, cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "calculator endpoint", got: cfg.Calculator.Endpoint, want: "http://localhost:5050/api/calculate-bacc"},
		{name: "calculator timeout", got: cfg.Calculator.Timeout, want: 30 * time.Second},
		{name: "cost share", got: cfg.Calculator.DefaultCostShare, want: 10.0},
		{name: "local", got: cfg.Calculator.Local, want: false},
		{name: "survey endpoint", got: cfg.Survey.Endpoint, want: "http://localhost:5050/api/survey-responses"},
		{name: "survey timeout", got: cfg.Survey.Timeout, want: 30 * time.Second},
		{name: "catalogue", got: cfg.Survey.Catalogue, want: ""},
		{name: "events file", got: cfg.Events.File, want: ".bacc/events.jsonl"},
		{name: "events enabled", got: cfg.Events.IsEnabled(), want: true},
		{name: "server addr", got: cfg.Server.Addr, want: ":5050"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestNewDefaults_Valid(t *testing.T) {
	t.Parallel()
	vr := Validate(NewDefaults(), nil)
	assert.Empty(t, vr.Issues)
}

func TestNewDefaults_FreshCopy(t *testing.T) {
	t.Parallel()
	a := NewDefaults()
	*a.Events.Enabled = false
	assert.True(t, NewDefaults().Events.IsEnabled())
}

func TestEventsConfig_IsEnabled(t *testing.T) {
	t.Parallel()
	off, on := false, true
	assert.True(t, EventsConfig{}.IsEnabled(), "unset means enabled")
	assert.True(t, EventsConfig{Enabled: &on}.IsEnabled())
	assert.False(t, EventsConfig{Enabled: &off}.IsEnabled())
}
