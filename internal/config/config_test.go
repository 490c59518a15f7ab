package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/", c.URL)
	assert.Equal(t, "reactive", c.Mode)
	assert.Equal(t, "/", c.PrependHash)
	assert.Equal(t, "", c.AppendHash)
	assert.Equal(t, "/", c.Separator)
	assert.Equal(t, hasher.DefaultPollInterval, c.PollInterval)

	mode, err := c.DecodeMode()
	require.NoError(t, err)
	assert.Equal(t, hasher.DecodeStrict, mode)
}

func TestLoadFileEnvAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: file:///tmp/index.html
mode: legacy
separator: "-"
poll_interval: 50ms
`), 0o644))

	t.Setenv("HASHSYNC_TITLE", "from env")

	c, err := config.Load(path, map[string]any{"separator": "+"})
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/index.html", c.URL)
	assert.Equal(t, "legacy", c.Mode)
	assert.Equal(t, "from env", c.Title)
	assert.Equal(t, "+", c.Separator)
	assert.Equal(t, 50*time.Millisecond, c.PollInterval)

	features, err := c.Features()
	require.NoError(t, err)
	assert.Equal(t, []hasher.Feature{hasher.FeatureLocalFile}, features)
}

func TestLoadQueryEscape(t *testing.T) {
	t.Setenv("HASHSYNC_QUERY_ESCAPE", "true")

	c, err := config.Load("", map[string]any{"url": "file:///tmp/index.html", "mode": "polling"})
	require.NoError(t, err)
	assert.True(t, c.QueryEscape)

	features, err := c.Features()
	require.NoError(t, err)
	assert.Equal(t, []hasher.Feature{
		hasher.FeatureHistoryRecords,
		hasher.FeatureLocalFile,
		hasher.FeatureQueryEscape,
	}, features)
}

func TestLoadInvalid(t *testing.T) {
	_, err := config.Load("", map[string]any{"mode": "psychic"})
	assert.ErrorContains(t, err, "unknown mode")

	_, err = config.Load("", map[string]any{"decode": "maybe"})
	assert.ErrorContains(t, err, "unknown decode mode")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "read config")
}
