// Package config loads MoveWise settings from defaults, an optional YAML file,
// MOVEWISE_* environment variables and command-line flags.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pfrederiksen/movewise/internal/scraper"
	"github.com/pfrederiksen/movewise/internal/storage"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix       = "MOVEWISE_"
	DefaultFile     = "movewise.yaml"
	DefaultDataDir  = "~/.local/share/movewise"
	DefaultAddr     = "127.0.0.1:8501"
	SourceCSV       = "csv"
	SourceSQLite    = "sqlite"
	DefaultLogLevel = "info"
	DefaultCacheTTL = "30s"
)

// Config holds every setting the commands read.
type Config struct {
	DataDir     string `koanf:"data_dir"`
	RentURL     string `koanf:"rent_url"`
	CostURL     string `koanf:"cost_url"`
	WageFile    string `koanf:"wage_file"`
	GeoJSONFile string `koanf:"geojson_file"`
	MergedFile  string `koanf:"merged_file"`
	Addr        string `koanf:"addr"`
	LogLevel    string `koanf:"log_level"`
	SQLitePath  string `koanf:"sqlite_path"`
	Source      string `koanf:"source"`
	Offline     bool   `koanf:"offline"`
	// CacheTTL bounds how often the dashboard reloads the merged table.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// Defaults returns the lowest-precedence layer.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":     DefaultDataDir,
		"rent_url":     scraper.RentURL,
		"cost_url":     scraper.CostOfLivingURL,
		"wage_file":    storage.WageFile,
		"geojson_file": storage.BoundariesFile,
		"merged_file":  storage.MergedFile,
		"addr":         DefaultAddr,
		"log_level":    DefaultLogLevel,
		"sqlite_path":  "",
		"source":       SourceCSV,
		"offline":      false,
		"cache_ttl":    DefaultCacheTTL,
	}
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration. cfgFile may be empty, in which case
// movewise.yaml in the working directory is used when present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// MOVEWISE_DATA_DIR -> data_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values that cannot be defaulted.
func (c *Config) Validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	switch c.Source {
	case SourceCSV:
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("source %q requires sqlite_path", SourceSQLite)
		}
	default:
		return fmt.Errorf("invalid source: %s (must be '%s' or '%s')", c.Source, SourceCSV, SourceSQLite)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
