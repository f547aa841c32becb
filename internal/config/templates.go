package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"
)

//go:embed all:templates
var templateFS embed.FS

// templatesRoot is the top-level directory in the embedded FS that contains
// the starter file sets written by `bacc init`.
const templatesRoot = "templates"

// DefaultTemplate is the starter set used when none is named.
const DefaultTemplate = "default"

// TemplateVars holds the values substituted into .tmpl files.
type TemplateVars struct {
	CalculatorEndpoint string
	SurveyEndpoint     string
	ServerAddr         string
	Catalogue          string
}

// DefaultTemplateVars returns vars that reproduce the built-in defaults and
// point the catalogue at the example survey written alongside bacc.toml.
func DefaultTemplateVars() TemplateVars {
	return TemplateVars{
		CalculatorEndpoint: DefaultCalculatorEndpoint,
		SurveyEndpoint:     DefaultSurveyEndpoint,
		ServerAddr:         DefaultServerAddr,
		Catalogue:          "surveys/**/*.toml",
	}
}

// ListTemplates returns the names of the embedded starter sets.
func ListTemplates() ([]string, error) {
	entries, err := templateFS.ReadDir(templatesRoot)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// TemplateExists reports whether a starter set with the given name exists.
func TemplateExists(name string) bool {
	info, err := fs.Stat(templateFS, templatesRoot+"/"+name)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RenderTemplate writes the named starter set into destDir. Files ending in
// ".tmpl" are executed with vars and written without the extension; other
// files are copied as-is. Existing files are skipped unless force is set.
// It returns the paths written.
func RenderTemplate(name string, destDir string, vars TemplateVars, force bool) ([]string, error) {
	if !TemplateExists(name) {
		return nil, fmt.Errorf("template %q not found", name)
	}

	templateDir := templatesRoot + "/" + name
	var created []string

	walkErr := fs.WalkDir(templateFS, templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking template %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, templateDir+"/")
		isTmpl := strings.HasSuffix(rel, ".tmpl")
		destFile := filepath.Join(destDir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))

		if _, statErr := os.Stat(destFile); statErr == nil && !force {
			log.Debug("skipping existing file", "path", destFile)
			return nil
		}

		content, readErr := templateFS.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading embedded file %s: %w", path, readErr)
		}
		if isTmpl {
			tmpl, parseErr := template.New(d.Name()).Option("missingkey=error").Parse(string(content))
			if parseErr != nil {
				return fmt.Errorf("parsing template %s: %w", path, parseErr)
			}
			var buf bytes.Buffer
			if execErr := tmpl.Execute(&buf, vars); execErr != nil {
				return fmt.Errorf("executing template %s: %w", path, execErr)
			}
			content = buf.Bytes()
		}

		if mkdirErr := os.MkdirAll(filepath.Dir(destFile), 0o755); mkdirErr != nil {
			return fmt.Errorf("creating directory for %s: %w", destFile, mkdirErr)
		}
		if writeErr := os.WriteFile(destFile, content, 0o644); writeErr != nil {
			return fmt.Errorf("writing file %s: %w", destFile, writeErr)
		}

		log.Debug("created file", "path", destFile)
		created = append(created, destFile)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return created, nil
}
