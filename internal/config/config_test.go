package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DataFile = "/tmp/ledger.json"
	cfg.Alerts.NearingThreshold = 0.75
	cfg.Alerts.ReminderHour = 20
	cfg.Appearance.Theme = "tokyo-night"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "moneymate"), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[alerts]\nnearing_threshold = 0.8\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.Alerts.NearingThreshold, 1e-9)
	assert.Equal(t, 800, cfg.Autosave.DebounceMS)
	assert.Equal(t, "127.0.0.1:8788", cfg.Daemon.Addr)
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "moneymate"), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[alerts]\nnearing_threshold = 1.5\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "invalid config")
}

func TestGetDataFile(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("MONEYMATE_DATA_FILE", "")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(data, "moneymate", "moneymate.json"), GetDataFile(cfg))

	cfg.General.DataFile = "/srv/ledger.json"
	assert.Equal(t, "/srv/ledger.json", GetDataFile(cfg))

	t.Setenv("MONEYMATE_DATA_FILE", "/env/ledger.json")
	assert.Equal(t, "/env/ledger.json", GetDataFile(cfg))

	assert.Equal(t, filepath.Join(data, "moneymate", "notifications.db"), GetQueuePath(cfg))
}

func TestGetDataFileFlagBeatsEnv(t *testing.T) {
	t.Setenv("MONEYMATE_DATA_FILE", "/env/ledger.json")

	cfg := DefaultConfig()
	cfg.General.DataFile = "/srv/ledger.json"
	cfg.General.DataFileFlag = "/flag/ledger.json"
	assert.Equal(t, "/flag/ledger.json", GetDataFile(cfg))
}

func TestSaveOmitsDataFileFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DataFileFlag = "/flag/ledger.json"
	require.NoError(t, Save(cfg))

	raw, err := os.ReadFile(ConfigPath())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "/flag/ledger.json")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.General.DataFileFlag)
}
