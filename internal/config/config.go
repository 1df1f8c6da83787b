// Package config holds the hitfind configuration value. There is no global
// configuration: callers build a Config with New or Load and pass it into the
// entry point explicitly.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Default detection settings, matching the original batch script.
const (
	DefaultSigma     = 1.0
	DefaultThreshold = 5.0

	// DefaultMaxHits bounds the hit count accepted from a detection buffer.
	// A 460x460 frame cannot hold more local maxima than it has cells.
	DefaultMaxHits = 460 * 460

	DefaultCacheTTLSeconds = 3600

	DefaultCapability = "reference"
)

// Output format identifiers.
const (
	OutputPlot = "plot"
	OutputJSON = "json"
)

// Config is the complete hitfind configuration.
//
// YAML Location: passed with --config, e.g.
//
//	detection:
//	  location: data/run-7/
//	  sigma: 1.0
//	  threshold: 5.0
//	dispatch:
//	  workers: 8
type Config struct {
	Detection DetectionConfig `yaml:"detection" json:"detection"`
	Dispatch  DispatchConfig  `yaml:"dispatch"  json:"dispatch"`
	Cache     CacheConfig     `yaml:"cache"     json:"cache"`
	Output    OutputConfig    `yaml:"output"    json:"output"`
	Logging   LoggingConfig   `yaml:"logging"   json:"logging"`
}

// DetectionConfig selects the batch and the DoG parameters.
type DetectionConfig struct {
	// Location is a single file, or a directory when it ends with a path separator.
	Location string `yaml:"location" json:"location"`

	// Sigma is the fine Gaussian scale; the coarse scale is always 2*Sigma.
	Sigma float64 `yaml:"sigma" json:"sigma"`

	// Threshold is the minimum absolute DoG response for a hit.
	Threshold float64 `yaml:"threshold" json:"threshold"`

	// MaxHits is the largest hit count a detection buffer may report.
	MaxHits int `yaml:"max_hits,omitempty" json:"max_hits,omitempty"`

	// Capability names the DoG backend: "reference", or "native"/"gocv" when
	// the binary was built with the matching tag.
	Capability string `yaml:"capability,omitempty" json:"capability,omitempty"`
}

// DispatchConfig bounds the detection fan-out.
type DispatchConfig struct {
	// Workers caps the number of files detected at once. Zero or negative
	// runs every file of the batch concurrently.
	Workers int `yaml:"workers" json:"workers"`
}

// CacheConfig controls the on-disk detection result cache. Disabled by default.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     json:"enabled"`
	Directory  string `yaml:"directory"   json:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// OutputConfig selects how the aggregation is presented.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Plain  bool   `yaml:"plain"  json:"plain"`
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Detection: DetectionConfig{
			Sigma:      DefaultSigma,
			Threshold:  DefaultThreshold,
			MaxHits:    DefaultMaxHits,
			Capability: DefaultCapability,
		},
		Cache: CacheConfig{
			Directory:  defaultCacheDir(),
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		Output:  OutputConfig{Format: OutputPlot},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// WithLocationOverride returns a copy of c whose location is arg, or c itself
// when arg is empty.
func (c *Config) WithLocationOverride(arg string) *Config {
	if arg == "" {
		return c
	}
	out := *c
	out.Detection.Location = arg
	return &out
}

// EffectiveWorkers resolves the concurrency ceiling. Zero means unbounded.
func (c *Config) EffectiveWorkers() int {
	if c.Dispatch.Workers <= 0 {
		return 0
	}
	return c.Dispatch.Workers
}

// Validate checks the values the detection capability depends on.
func (c *Config) Validate() error {
	var errs []error

	if !positiveFinite(c.Detection.Sigma) {
		errs = append(errs, fmt.Errorf("detection.sigma must be positive, got %v", c.Detection.Sigma))
	}
	if !positiveFinite(c.Detection.Threshold) {
		errs = append(errs, fmt.Errorf("detection.threshold must be positive, got %v", c.Detection.Threshold))
	}
	if c.Detection.MaxHits < 0 {
		errs = append(errs, fmt.Errorf("detection.max_hits must be >= 0, got %d", c.Detection.MaxHits))
	}

	switch strings.ToLower(c.Output.Format) {
	case OutputPlot, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", OutputPlot, OutputJSON, c.Output.Format))
	}

	if c.Cache.Enabled {
		if c.Cache.Directory == "" {
			errs = append(errs, errors.New("cache.directory is required when the cache is enabled"))
		}
		if c.Cache.TTLSeconds <= 0 {
			errs = append(errs, fmt.Errorf("cache.ttl_seconds must be positive, got %d", c.Cache.TTLSeconds))
		}
	}

	return errors.Join(errs...)
}

// applyDefaults fills zero values left behind by sections that were replaced
// wholesale by a YAML overlay.
func (c *Config) applyDefaults() {
	if c.Detection.MaxHits == 0 {
		c.Detection.MaxHits = DefaultMaxHits
	}
	if c.Detection.Capability == "" {
		c.Detection.Capability = DefaultCapability
	}
	if c.Output.Format == "" {
		c.Output.Format = OutputPlot
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = defaultCacheDir()
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// defaultCacheDir returns <user cache dir>/hitfind, or a temp dir fallback.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hitfind")
}
