package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 250, cfg.MaxLiteralLen)
	assert.Equal(t, 2, cfg.MinMatchSavings)
	assert.Equal(t, "", cfg.FinderEndpoint)
}

func TestLoadOverridesPartialFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_literal_len: 100\nfinder_endpoint: \"http://localhost:9\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxLiteralLen)
	assert.Equal(t, 2, cfg.MinMatchSavings, "fields absent from the file keep their default")
	assert.Equal(t, "http://localhost:9", cfg.FinderEndpoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
