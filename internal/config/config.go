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

// DefaultBaseURL is the donation items service used when nothing else is configured
const DefaultBaseURL = "https://n3o-coding-task-react.azurewebsites.net/api/v1/donationItems"

// Environment variables that override config.toml values
const (
	EnvAPIURL   = "DONATIONS_API_URL"
	EnvCurrency = "DONATIONS_CURRENCY"
	EnvPageSize = "DONATIONS_PAGE_SIZE"
	EnvLogFile  = "DONATIONS_LOG_FILE"
)

// Config represents the configuration from config.toml
type Config struct {
	API struct {
		BaseURL        string `toml:"base_url"`
		Currency       string `toml:"currency"`        // Currency code sent with every price
		RequestTimeout int    `toml:"request_timeout"` // Per-request deadline in seconds, 0 disables
	} `toml:"api"`
	Query struct {
		StaleTime    int `toml:"stale_time"`     // Seconds cached data counts as fresh, 0 always revalidates
		Retry        int `toml:"retry"`          // Extra attempts after a failed fetch
		RetryDelayMS int `toml:"retry_delay_ms"` // Pause between attempts
	} `toml:"query"`
	TUI struct {
		PageSize        int    `toml:"page_size"`
		RefreshInterval int    `toml:"refresh_interval"` // Auto-refresh interval in seconds, 0 disables
		Theme           string `toml:"theme"`
	} `toml:"tui"`
	Log struct {
		Path  string `toml:"path"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default returns a config populated with built-in defaults
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = DefaultBaseURL
	cfg.API.Currency = "GBP"
	cfg.API.RequestTimeout = 15
	cfg.Query.StaleTime = 0
	cfg.Query.Retry = 1
	cfg.Query.RetryDelayMS = 500
	cfg.TUI.PageSize = 10
	cfg.TUI.RefreshInterval = 0
	cfg.TUI.Theme = "clean_cyber"
	cfg.Log.Level = "info"
	return cfg
}

// Path returns the standard XDG location of config.toml
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "donations", "config.toml"), nil
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from configPath. A missing file is not an error.
// Values from a .env file in the working directory and the process environment
// are applied on top of the file.
func LoadFrom(configPath string) (*Config, error) {
	config := Default()

	// Read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		configData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse TOML config, merging with defaults
		if err := toml.Unmarshal(configData, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; existing environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCurrency)); v != "" {
		c.API.Currency = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPageSize, v, err)
		}
		c.TUI.PageSize = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.Log.Path = v
	}
	return nil
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if strings.TrimSpace(c.API.Currency) == "" {
		return fmt.Errorf("api.currency must not be empty")
	}
	if c.TUI.PageSize < 1 {
		return fmt.Errorf("tui.page_size must be at least 1, got %d", c.TUI.PageSize)
	}
	if c.API.RequestTimeout < 0 || c.Query.StaleTime < 0 || c.Query.Retry < 0 ||
		c.Query.RetryDelayMS < 0 || c.TUI.RefreshInterval < 0 {
		return fmt.Errorf("durations and retry counts must not be negative")
	}
	return nil
}

// GetRefreshInterval returns the configured refresh interval in seconds
// Returns 0 if auto-refresh is disabled
func (c *Config) GetRefreshInterval() int {
	return c.TUI.RefreshInterval
}

// RequestTimeout returns the per-request deadline, 0 when disabled
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeout) * time.Second
}

// StaleTime returns how long fetched data is served without revalidation
func (c *Config) StaleTime() time.Duration {
	return time.Duration(c.Query.StaleTime) * time.Second
}

// RetryDelay returns the pause between fetch attempts
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Query.RetryDelayMS) * time.Millisecond
}

// DefaultLogPath returns $XDG_STATE_HOME/donations/donations.log
func DefaultLogPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "donations", "donations.log"), nil
}
