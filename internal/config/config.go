// Package config loads QKart settings from ~/.qkart/config.toml and
// QKART_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" toml:"api"`
	Search  SearchConfig  `mapstructure:"search" toml:"search"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// APIConfig locates the catalog service.
type APIConfig struct {
	Endpoint  string `mapstructure:"endpoint" toml:"endpoint"`
	TimeoutMs int    `mapstructure:"timeout_ms" toml:"timeout_ms"` // 0 = wait for the service indefinitely
}

// SearchConfig tunes the incremental search.
type SearchConfig struct {
	DebounceMs    int     `mapstructure:"debounce_ms" toml:"debounce_ms"`
	RatePerSecond float64 `mapstructure:"rate_per_second" toml:"rate_per_second"` // 0 = unpaced
	Burst         int     `mapstructure:"burst" toml:"burst"`
	ErrorMessage  string  `mapstructure:"error_message" toml:"error_message"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	NoticeTTLMs int  `mapstructure:"notice_ttl_ms" toml:"notice_ttl_ms"`
	MaxNotices  int  `mapstructure:"max_notices" toml:"max_notices"`
	AltScreen   bool `mapstructure:"alt_screen" toml:"alt_screen"`
}

// LoggingConfig controls the text log and the JSONL event log.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Events bool   `mapstructure:"events" toml:"events"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: "http://localhost:8082/api/v1",
		},
		Search: SearchConfig{
			DebounceMs:    500,
			RatePerSecond: 4,
			Burst:         2,
			ErrorMessage:  "Could not fetch results from backend",
		},
		UI: UIConfig{
			NoticeTTLMs: 4000,
			MaxNotices:  3,
			AltScreen:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Events: true,
		},
	}
}

// DataDir is ~/.qkart, or ./.qkart when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".qkart")
}

// ConfigPath is the default config file location.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("api.endpoint", d.API.Endpoint)
	v.SetDefault("api.timeout_ms", d.API.TimeoutMs)
	v.SetDefault("search.debounce_ms", d.Search.DebounceMs)
	v.SetDefault("search.rate_per_second", d.Search.RatePerSecond)
	v.SetDefault("search.burst", d.Search.Burst)
	v.SetDefault("search.error_message", d.Search.ErrorMessage)
	v.SetDefault("ui.notice_ttl_ms", d.UI.NoticeTTLMs)
	v.SetDefault("ui.max_notices", d.UI.MaxNotices)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.events", d.Logging.Events)
}

// Load reads the TOML file at path (ConfigPath() when empty) and applies
// QKART_* environment overrides, e.g. QKART_API_ENDPOINT or
// QKART_SEARCH_DEBOUNCE_MS. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("QKART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as TOML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// Validate checks the settings the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Endpoint) == "" {
		return &ConfigError{Field: "api.endpoint", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.API.Endpoint, "http://") && !strings.HasPrefix(c.API.Endpoint, "https://") {
		return &ConfigError{Field: "api.endpoint", Message: "must be an http(s) URL"}
	}
	if c.API.TimeoutMs < 0 {
		return &ConfigError{Field: "api.timeout_ms", Message: "must not be negative"}
	}
	if c.Search.DebounceMs <= 0 {
		return &ConfigError{Field: "search.debounce_ms", Message: "must be positive"}
	}
	if c.Search.RatePerSecond < 0 {
		return &ConfigError{Field: "search.rate_per_second", Message: "must not be negative"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	return nil
}

// DebounceDelay is the search quiet period.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// RequestTimeout is the per-request HTTP timeout; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// NoticeTTL is how long a notification stays visible.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.UI.NoticeTTLMs) * time.Millisecond
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
