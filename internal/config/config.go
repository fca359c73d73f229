// Package config provides persistent configuration for salah-watch.
//
// Configuration lives at $XDG_CONFIG_HOME/salah-watch/config.yaml and can be
// overridden through SALAH_WATCH_* environment variables. The merge priority
// is: CLI flags > environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName  = "salah-watch"
	configFileName = "config"
)

// ValidKeys lists all config keys settable via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"city", "country",
	"method", "school",
	"time_format",
	"state_path",
	"push.url", "push.token", "push.user",
}

// Config holds all user-configurable settings. Zero values mean "not set"
// (auto-detect location, API-default method/school).
type Config struct {
	Latitude   float64 `mapstructure:"latitude"`
	Longitude  float64 `mapstructure:"longitude"`
	City       string  `mapstructure:"city"`
	Country    string  `mapstructure:"country"`
	Method     int     `mapstructure:"method"`
	School     int     `mapstructure:"school"`
	TimeFormat string  `mapstructure:"time_format"` // "12h" or "24h"
	StatePath  string  `mapstructure:"state_path"`  // bbolt database location
	Push       Push    `mapstructure:"push"`
}

// Push configures the optional external push gateway.
type Push struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
	User  string `mapstructure:"user"`
}

// Enabled reports whether push delivery is configured.
func (p Push) Enabled() bool {
	return p.Token != "" && p.User != ""
}

// Dir returns the config directory, respecting $XDG_CONFIG_HOME.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName+".yaml"), nil
}

// newViper builds a viper instance with defaults and env binding applied.
func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("SALAH_WATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("method", -1)
	v.SetDefault("school", -1)
	v.SetDefault("time_format", "24h")

	return v
}

// Load reads the config from the default location. A missing file is not an
// error; an unreadable or malformed one is.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads the config from a specific directory.
func LoadFrom(dir string) (*Config, error) {
	v := newViper(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Set validates and writes a single key back to the config file, creating
// it if needed.
func Set(key, value string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return SetIn(dir, key, value)
}

// SetIn writes a key in a specific config directory.
func SetIn(dir, key, value string) error {
	parsed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("invalid config file: %w", err)
		}
	}

	v.Set(key, parsed)
	if err := v.WriteConfigAs(filepath.Join(dir, configFileName+".yaml")); err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	return nil
}

// Get returns a key's current string value from the given config.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return floatOrEmpty(c.Latitude), nil
	case "longitude":
		return floatOrEmpty(c.Longitude), nil
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "method":
		return intOrEmpty(c.Method), nil
	case "school":
		return intOrEmpty(c.School), nil
	case "time_format":
		return c.TimeFormat, nil
	case "state_path":
		return c.StatePath, nil
	case "push.url":
		return c.Push.URL, nil
	case "push.token":
		return c.Push.Token, nil
	case "push.user":
		return c.Push.User, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// parseValue validates a key's raw string and returns the typed value to
// store.
func parseValue(key, value string) (any, error) {
	switch key {
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < -90 || v > 90 {
			return nil, fmt.Errorf("invalid latitude %q: must be a number between -90 and 90", value)
		}
		return v, nil
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < -180 || v > 180 {
			return nil, fmt.Errorf("invalid longitude %q: must be a number between -180 and 180", value)
		}
		return v, nil
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil || v < -1 || v > 23 {
			return nil, fmt.Errorf("invalid method %q: must be an integer between 0 and 23", value)
		}
		return v, nil
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil || (v != -1 && v != 0 && v != 1) {
			return nil, fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		return v, nil
	case "time_format":
		if value != "12h" && value != "24h" {
			return nil, fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		return value, nil
	case "city", "country", "state_path", "push.url", "push.token", "push.user":
		return value, nil
	default:
		return nil, fmt.Errorf("unknown config key %q", key)
	}
}

func (c *Config) validate() error {
	if c.TimeFormat != "" && c.TimeFormat != "12h" && c.TimeFormat != "24h" {
		return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", c.TimeFormat)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("invalid latitude %v", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid longitude %v", c.Longitude)
	}
	return nil
}

// GoTimeFormat returns the Go layout string for the configured time format.
func (c *Config) GoTimeFormat() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

func floatOrEmpty(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intOrEmpty(v int) string {
	if v == -1 {
		return ""
	}
	return strconv.Itoa(v)
}
