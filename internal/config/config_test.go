package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"COREFIT_API_URL", "COREFIT_API_TIMEOUT_MS", "COREFIT_CACHE_URL", "COREFIT_LOG_LEVEL", "DEV_MODE"} {
		t.Setenv(k, "")
	}
	// Keep godotenv from picking up a stray .env in the package dir.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 12*time.Second, cfg.Timeout())
	assert.Equal(t, 600*time.Millisecond, cfg.Debounce())
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://api.corefit.app/"
timeout_ms = 5000

[session]
debounce_ms = 250

[profile]
weekly_goal_days = 12
timezone = "America/Sao_Paulo"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.corefit.app", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 7, cfg.Profile.WeeklyGoalDays)
	assert.Equal(t, "America/Sao_Paulo", cfg.Profile.Timezone)

	t.Setenv("COREFIT_API_URL", "http://127.0.0.1:9999")
	t.Setenv("COREFIT_LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, devCacheURL, cfg.Cache.ConnectionString)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("COREFIT_CACHE_URL=file:/tmp/x.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("COREFIT_CACHE_URL") })
	os.Unsetenv("COREFIT_CACHE_URL")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/x.db", cfg.Cache.ConnectionString)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Cache.ConnectionString = "libsql://corefit.turso.io?authToken=x"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/corefit", dir)
}
