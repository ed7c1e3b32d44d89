package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launchdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
dataset: launches.db
step: 500
session_idle: 5m
chart:
  width: 900
  height: 600
sites:
  - value: "KSC LC-39A"
    label: "Kennedy LC-39A"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "launches.db", cfg.Dataset)
	assert.Equal(t, 500.0, cfg.Step)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdle)
	assert.Equal(t, render.Size{Width: 900, Height: 600}, cfg.Chart)
	assert.Equal(t, []control.SiteOption{{Label: "Kennedy LC-39A", Value: "KSC LC-39A"}}, cfg.SiteOptions())

	// untouched keys keep their defaults
	assert.Equal(t, Default().Title, cfg.Title)
	assert.Equal(t, Default().SQLiteTable, cfg.SQLiteTable)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "adress: \":9090\"\n"))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "failed to parse YAML")
	assert.Contains(t, err.Error(), "adress")
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_SchemaViolationCarriesPath(t *testing.T) {
	path := writeConfig(t, "step: -1\n")

	_, err := Load(path)
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.Path)
	assert.Equal(t, "schema violation", ce.Message)
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"addr without port", func(c *Config) { c.Addr = "localhost" }},
		{"empty title", func(c *Config) { c.Title = "" }},
		{"bad table name", func(c *Config) { c.SQLiteTable = "launches; drop" }},
		{"tiny chart", func(c *Config) { c.Chart = render.Size{Width: 10, Height: 10} }},
		{"negative idle", func(c *Config) { c.SessionIdle = -time.Second }},
		{"empty site label", func(c *Config) { c.Sites = []SiteLabel{{Value: "X"}} }},
		{"sentinel site", func(c *Config) { c.Sites = []SiteLabel{{Value: "all", Label: "All"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var ce *Error
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestValidate_NilSites(t *testing.T) {
	cfg := Default()
	cfg.Sites = nil
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.SiteOptions())
}

func TestValidate_DuplicateSites(t *testing.T) {
	cfg := Default()
	cfg.Sites = append(cfg.Sites, SiteLabel{Value: "KSC LC-39A", Label: "again"})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate site "KSC LC-39A"`)
}
