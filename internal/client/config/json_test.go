package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJsonFile_OverridesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := writeTempConfig(t, `{
		"base_url": "http://10.0.2.2:8000",
		"request_timeout": "30s",
		"history_limit": 10,
		"session_db_path": "/tmp/session.db"
	}`)

	loadJsonFile(cfg, path)

	assert.Equal(t, "http://10.0.2.2:8000", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, "/tmp/session.db", cfg.SessionDBPath)
}

func TestLoadJsonFile_PartialKeepsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := writeTempConfig(t, `{"base_url": "http://example.org"}`)
	loadJsonFile(cfg, path)

	assert.Equal(t, "http://example.org", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestLoadJsonFile_InvalidJSONPanics(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := writeTempConfig(t, `{not json`)
	assert.Panics(t, func() { loadJsonFile(cfg, path) })
}

func TestParseJson_NoFlagLeavesConfigUntouched(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
}
