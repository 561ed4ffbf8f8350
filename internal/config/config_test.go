package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
repo = "octo/hello"
workflow = "Test"
limit = 25
cache_ttl_minutes = 5
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", cfg.Repo)
	assert.Equal(t, "Test", cfg.Workflow)
	assert.Equal(t, 25, cfg.Limit)
	assert.Equal(t, 5, cfg.CacheTTLMinutes)
}

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `repo = "octo/hello"`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", cfg.Repo)
	assert.Equal(t, Default().Limit, cfg.Limit)
	assert.Equal(t, Default().CacheTTLMinutes, cfg.CacheTTLMinutes)
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := writeConfig(t, `repo = [broken`)

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}
