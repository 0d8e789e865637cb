// Package config loads server settings from flags, ZALOGA_* environment
// variables and an optional zaloga.yaml (or .json, .toml) file, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// EnvPrefix prefixes every environment variable, e.g. ZALOGA_ADDR.
const EnvPrefix = "ZALOGA"

// Config holds the runtime configuration.
type Config struct {
	Addr         string `mapstructure:"addr"`
	DataDir      string `mapstructure:"data-dir"`
	Backend      string `mapstructure:"backend"`
	DB           string `mapstructure:"db"`
	UploadsDir   string `mapstructure:"uploads-dir"`
	PublicDir    string `mapstructure:"public-dir"`
	JWTSecret    string `mapstructure:"jwt-secret"`
	LegacyTokens bool   `mapstructure:"legacy-tokens"`
	AdminKey     string `mapstructure:"admin-key"`
	Log          string `mapstructure:"log"`
	MaxBodyBytes int64  `mapstructure:"max-body-bytes"`
	Timezone     string `mapstructure:"timezone"`
}

// RegisterFlags defines every setting as a flag on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("addr", "a", ":3000", "listen address")
	fs.String("data-dir", "data", "directory holding the JSON collections")
	fs.String("backend", BackendFile, "storage backend: file or sqlite")
	fs.StringP("db", "d", "zaloga.sqlite3", "SQLite database path (sqlite backend)")
	fs.String("uploads-dir", "uploads", "directory for uploaded images")
	fs.String("public-dir", "public", "directory with the HTML pages")
	fs.String("jwt-secret", "", "token signing secret (default: generated and stored)")
	fs.Bool("legacy-tokens", true, "accept user IDs as bearer tokens")
	fs.String("admin-key", "", "key required in X-Admin-Key for admin routes")
	fs.StringP("log", "l", "", "log file path (default: stdout/stderr only)")
	fs.Int64("max-body-bytes", 50<<20, "maximum request body size")
	fs.String("timezone", "Local", "time zone for monthly reports")
}

// Load merges fs, the environment and the config file into a Config. An
// empty configFile searches for zaloga.* in the working directory; a missing
// file is not an error unless it was named explicitly.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("zaloga")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max-body-bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
