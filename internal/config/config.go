// Package config loads the project configuration from
// .understand-first.yml. A missing file yields defaults; a malformed
// one is an error the CLI surfaces. All knobs the engine needs (hops,
// workers, cache location) travel through this struct explicitly; no
// package reads configuration on its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	uferrors "uf/internal/errors"
)

// ConfigFileName is the well-known config file at the repo root.
const ConfigFileName = ".understand-first.yml"

// maxHops caps configured hop counts. Callers can still pass anything
// programmatically; the cap applies to the config file only.
const maxHops = 5

// Config is the complete tool configuration.
type Config struct {
	Seeds    []string            `json:"seeds" mapstructure:"seeds" yaml:"seeds"`
	Hops     int                 `json:"hops" mapstructure:"hops" yaml:"hops"`
	SeedsFor map[string][]string `json:"seeds_for" mapstructure:"seeds_for" yaml:"seeds_for,omitempty"`
	Scan     ScanConfig          `json:"scan" mapstructure:"scan" yaml:"scan"`
	Metrics  MetricsConfig       `json:"metrics" mapstructure:"metrics" yaml:"metrics"`
	Logging  LoggingConfig       `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// ScanConfig controls the source scanner.
type ScanConfig struct {
	UseCache  bool   `json:"use_cache" mapstructure:"use_cache" yaml:"use_cache"`
	CachePath string `json:"cache_path" mapstructure:"cache_path" yaml:"cache_path"`
	Workers   int    `json:"workers" mapstructure:"workers" yaml:"workers"`
}

// MetricsConfig controls the opt-in local metrics store.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path" mapstructure:"db_path" yaml:"db_path"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" yaml:"format"`
	Level  string `json:"level" mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Seeds:    []string{},
		Hops:     2,
		SeedsFor: map[string][]string{},
		Scan: ScanConfig{
			UseCache:  true,
			CachePath: filepath.Join("maps", "cache.sqlite"),
			Workers:   0, // 0 means min(4, NumCPU)
		},
		Metrics: MetricsConfig{
			Enabled: false,
			DBPath:  filepath.Join("maps", "metrics.sqlite"),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads the config file at dir/.understand-first.yml. A missing
// file returns defaults; anything else that goes wrong is an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".yml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	defaults := DefaultConfig()
	v.SetDefault("hops", defaults.Hops)
	v.SetDefault("scan.use_cache", defaults.Scan.UseCache)
	v.SetDefault("scan.cache_path", defaults.Scan.CachePath)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.db_path", defaults.Metrics.DBPath)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, uferrors.Wrap(uferrors.ConfigInvalid, "cannot read config file", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, uferrors.Wrap(uferrors.ConfigInvalid, "cannot decode config file", err)
	}
	return cfg, nil
}

// knownKeys are the accepted top-level config keys, for typo reporting.
var knownKeys = []string{"seeds", "hops", "seeds_for", "scan", "metrics", "logging"}

// Validate checks field constraints and reports every violation, not
// just the first.
func (c *Config) Validate() []error {
	var errs []error
	if c.Hops < 0 || c.Hops > maxHops {
		errs = append(errs, uferrors.New(uferrors.ConfigInvalid,
			fmt.Sprintf("hops must be between 0 and %d", maxHops)).WithField("hops"))
	}
	if c.Scan.Workers < 0 {
		errs = append(errs, uferrors.New(uferrors.ConfigInvalid,
			"workers cannot be negative").WithField("scan.workers"))
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		errs = append(errs, uferrors.New(uferrors.ConfigInvalid,
			"format must be human or json").WithField("logging.format"))
	}
	return errs
}

// ValidateFile checks a config file for unknown keys and field errors
// without applying defaults, so typos don't silently vanish.
func ValidateFile(path string) []error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{uferrors.Wrap(uferrors.ConfigInvalid, "cannot read config file", err)}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return []error{uferrors.Wrap(uferrors.ConfigInvalid, "malformed YAML", err)}
	}

	var errs []error
	for key := range raw {
		if !isKnownKey(key) {
			msg := fmt.Sprintf("unknown key %q", key)
			if suggestion := closestKey(key); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			errs = append(errs, uferrors.New(uferrors.ConfigInvalid, msg).WithField(key))
		}
	}

	dir := filepath.Dir(path)
	cfg, err := Load(dir)
	if err != nil {
		errs = append(errs, err)
		return errs
	}
	errs = append(errs, cfg.Validate()...)
	return errs
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return uferrors.Wrap(uferrors.InternalError, "cannot encode config", err)
	}
	return os.WriteFile(path, data, 0644)
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// closestKey suggests the known key nearest to a typo, if the edit
// distance is small enough to be a plausible slip.
func closestKey(key string) string {
	best := ""
	bestDist := 3 // anything further is not a typo
	keys := append([]string(nil), knownKeys...)
	sort.Strings(keys)
	for _, k := range keys {
		if d := editDistance(key, k); d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}

func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
