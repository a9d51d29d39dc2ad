package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL        = "http://localhost:3000"
	DefaultTimeoutMS      = 12000
	DefaultDebounceMS     = 600
	DefaultWeeklyGoalDays = 4
	DefaultLogLevel       = "info"

	devCacheURL = "file:./local.db?cache=shared&mode=rwc"
)

type Config struct {
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
	Profile ProfileConfig `toml:"profile"`
}

type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
}

type SessionConfig struct {
	DebounceMS int `toml:"debounce_ms"` // Quiet period before an edit is autosaved.
}

type CacheConfig struct {
	ConnectionString string `toml:"connection_string"` // Empty disables the offline cache.
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Empty means the default state dir.
}

type ProfileConfig struct {
	WeeklyGoalDays int    `toml:"weekly_goal_days"`
	Timezone       string `toml:"timezone"` // IANA name; empty uses the system zone.
}

func Default() *Config {
	return &Config{
		API:     APIConfig{BaseURL: DefaultBaseURL, TimeoutMS: DefaultTimeoutMS},
		Session: SessionConfig{DebounceMS: DefaultDebounceMS},
		Log:     LogConfig{Level: DefaultLogLevel},
		Profile: ProfileConfig{WeeklyGoalDays: DefaultWeeklyGoalDays},
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMS) * time.Millisecond
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Session.DebounceMS) * time.Millisecond
}

// Dir returns the corefit config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "corefit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "corefit"), nil
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file at the default path. See Load.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Failed to read config %s: %w", path, err)
	}

	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("COREFIT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("COREFIT_API_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Invalid COREFIT_API_TIMEOUT_MS %q: %w", v, err)
		}
		c.API.TimeoutMS = ms
	}
	if v := os.Getenv("COREFIT_CACHE_URL"); v != "" {
		c.Cache.ConnectionString = v
	}
	if v := os.Getenv("COREFIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		c.Cache.ConnectionString = devCacheURL
	}
	return nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutMS <= 0 {
		c.API.TimeoutMS = DefaultTimeoutMS
	}
	if c.Session.DebounceMS <= 0 {
		c.Session.DebounceMS = DefaultDebounceMS
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	switch {
	case c.Profile.WeeklyGoalDays <= 0:
		c.Profile.WeeklyGoalDays = DefaultWeeklyGoalDays
	case c.Profile.WeeklyGoalDays > 7:
		c.Profile.WeeklyGoalDays = 7
	}
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("Failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("Failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("Failed to write config: %w", err)
	}
	return nil
}
