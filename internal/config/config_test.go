package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/export"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Load ---

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, scoring.VariantA, cfg.Variant())
	assert.Equal(t, checklist.ModeTriState, cfg.Mode())
	assert.Equal(t, DefaultExportDir, cfg.Export.Dir)
	assert.Equal(t, export.DefaultFilename, cfg.Export.Filename)
	assert.False(t, cfg.Export.NotesColumn)
	assert.Empty(t, cfg.Export.SQLite)
	assert.Empty(t, cfg.File)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "repse.yaml", `
log:
  level: debug
  format: json
checklist:
  variant: b
export:
  dir: ./out
  notes_column: true
  sqlite: ./out/evaluaciones.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, scoring.VariantB, cfg.Variant())
	assert.Equal(t, checklist.ModeCheckbox, cfg.Mode(), "variant b defaults to checkbox")
	assert.Equal(t, "./out", cfg.Export.Dir)
	assert.True(t, cfg.Export.NotesColumn)
	assert.Equal(t, "./out/evaluaciones.db", cfg.Export.SQLite)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "repse.yaml", "checklist:\n  variant: a\n")

	t.Setenv("REPSE_CHECKLIST_VARIANT", "b")
	t.Setenv("REPSE_CHECKLIST_MODE", "tristate")
	t.Setenv("REPSE_EXPORT_NOTES_COLUMN", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, scoring.VariantB, cfg.Variant())
	assert.Equal(t, checklist.ModeTriState, cfg.Mode(), "explicit mode wins over the variant default")
	assert.True(t, cfg.Export.NotesColumn)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"variant":  "checklist:\n  variant: c\n",
		"mode":     "checklist:\n  mode: radio\n",
		"level":    "log:\n  level: loud\n",
		"format":   "log:\n  format: xml\n",
		"filename": "export:\n  filename: a/b.csv\n",
		"parent":   "export:\n  filename: \"..\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "repse.yaml", content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, errs.CodeConfiguration, errs.CodeOf(err))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "REPSE_CONFIG_TEST_MARKER=loaded\n")
	t.Cleanup(func() { os.Unsetenv("REPSE_CONFIG_TEST_MARKER") })

	got := LoadEnvFile(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, path, got)
	assert.Equal(t, "loaded", os.Getenv("REPSE_CONFIG_TEST_MARKER"))

	assert.Empty(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

// --- Resolve / NewEngine ---

func TestResolve_BuiltInDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	def, table, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 10, def.Len())
	assert.Equal(t, scoring.Conditional, table.Classify(60))
	assert.Equal(t, scoring.Fit, table.Classify(90))
}

func TestResolve_FollowsChecklistSection(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Checklist.Variant = "b"

	_, table, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, scoring.Unfit, table.Classify(49.9))
	assert.Equal(t, scoring.Conditional, table.Classify(50))
	assert.Equal(t, scoring.Fit, table.Classify(80))
	assert.Equal(t, checklist.ModeCheckbox, cfg.Mode())
}

func TestResolve_DefinitionFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "checklist.yaml", `
items:
  - id: 1
    prompt: Constancia REPSE vigente
  - id: 2
    prompt: Opinión SAT positiva
    reference_url: https://www.sat.gob.mx/
bands:
  - lower_bound: 0
    tier: unfit
  - lower_bound: 50
    tier: conditional
  - lower_bound: 80
    tier: fit
tiers:
  fit:
    label: Aprobado
`)
	path := writeFile(t, dir, "repse.yaml", "checklist:\n  definition: checklist.yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	def, table, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, def.IDs())
	item, ok := def.Item(2)
	require.True(t, ok)
	assert.Equal(t, "https://www.sat.gob.mx/", item.ReferenceURL)

	assert.Equal(t, scoring.Conditional, table.Classify(50))
	assert.Equal(t, "Aprobado", table.Copy(scoring.Fit).Label)
	assert.Equal(t, "No apto", table.Copy(scoring.Unfit).Label, "missing tiers keep the built-in copy")
}

func TestResolve_JSONDefinition(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "checklist.json", `{"items": [{"id": 7, "prompt": "Contrato con cláusulas REPSE"}]}`)

	cfg := &Config{Checklist: ChecklistConfig{Variant: "a", Definition: def}}
	d, _, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []int{7}, d.IDs())
}

func TestResolve_DefinitionErrors(t *testing.T) {
	tests := map[string]string{
		"schema: unknown tier":     "bands:\n  - lower_bound: 0\n    tier: great\n",
		"schema: unknown key":      "questions: []\n",
		"schema: id below one":     "items:\n  - id: 0\n    prompt: x\n",
		"schema: empty document":   "{}\n",
		"semantic: duplicate id":   "items:\n  - id: 1\n    prompt: x\n  - id: 1\n    prompt: y\n",
		"semantic: bands not at 0": "bands:\n  - lower_bound: 10\n    tier: unfit\n",
		"semantic: tier order":     "bands:\n  - lower_bound: 0\n    tier: fit\n  - lower_bound: 50\n    tier: unfit\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "checklist.yaml", content)
			cfg := &Config{Checklist: ChecklistConfig{Variant: "a", Definition: path}}
			_, _, err := cfg.Resolve()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrConfiguration), "got %v", err)
		})
	}
}

func TestValidateDefinition_ListsViolations(t *testing.T) {
	err := ValidateDefinition(map[string]any{
		"items": []any{map[string]any{"id": 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt")
}

func TestNewEngine_UsesConfiguredMode(t *testing.T) {
	cfg := &Config{Checklist: ChecklistConfig{Variant: "b"}}

	e, err := cfg.NewEngine(checklist.WithSessionID("cfg-session"))
	require.NoError(t, err)
	assert.Equal(t, checklist.ModeCheckbox, e.Mode())
	assert.Equal(t, "cfg-session", e.SessionID())
	assert.Equal(t, 10, e.Total())
	assert.Equal(t, scoring.Conditional, e.Table().Classify(50))
}
