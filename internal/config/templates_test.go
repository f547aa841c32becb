package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

func TestListTemplates(t *testing.T) {
	t.Parallel()
	names, err := ListTemplates()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultTemplate}, names)
}

func TestTemplateExists(t *testing.T) {
	t.Parallel()
	assert.True(t, TemplateExists(DefaultTemplate))
	assert.False(t, TemplateExists("nonexistent"))
	assert.False(t, TemplateExists(""))
	assert.False(t, TemplateExists("../etc"))
}

func TestRenderTemplate_UnknownName(t *testing.T) {
	t.Parallel()
	_, err := RenderTemplate("nonexistent", t.TempDir(), TemplateVars{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRenderTemplate_WritesStarterFiles(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "project")
	created, err := RenderTemplate(DefaultTemplate, dir, DefaultTemplateVars(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "bacc.toml"),
		filepath.Join(dir, "surveys", "example.toml"),
	}, created)
	assert.NoFileExists(t, filepath.Join(dir, "bacc.toml.tmpl"))

	// The rendered config loads cleanly and validates against the example
	// catalogue written next to it.
	cfg, md, err := LoadFromFile(filepath.Join(dir, "bacc.toml"))
	require.NoError(t, err)
	assert.Empty(t, md.Undecoded())
	assert.Equal(t, DefaultSurveyEndpoint, cfg.Survey.Endpoint)
	assert.Equal(t, "surveys/**/*.toml", cfg.Survey.Catalogue)

	cat, err := survey.LoadCatalogue(filepath.Join(dir, cfg.Survey.Catalogue))
	require.NoError(t, err)
	vr := cat.Validate()
	assert.True(t, vr.IsValid(), vr.String())
	assert.Empty(t, vr.Warnings)
	assert.Equal(t, "example", cat.Name)
}

func TestRenderTemplate_SkipsExistingUnlessForced(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "bacc.toml")
	require.NoError(t, os.WriteFile(existing, []byte("# mine\n"), 0o644))

	created, err := RenderTemplate(DefaultTemplate, dir, DefaultTemplateVars(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "surveys", "example.toml")}, created)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	created, err = RenderTemplate(DefaultTemplate, dir, DefaultTemplateVars(), true)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[calculator]")
}

func TestRenderTemplate_SubstitutesVars(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	vars := DefaultTemplateVars()
	vars.ServerAddr = "127.0.0.1:9999"
	vars.Catalogue = ""
	_, err := RenderTemplate(DefaultTemplate, dir, vars, false)
	require.NoError(t, err)

	cfg, _, err := LoadFromFile(filepath.Join(dir, "bacc.toml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Empty(t, cfg.Survey.Catalogue)
}
