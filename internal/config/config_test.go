package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourpaljake/hitfinding/internal/config"
	"github.com/yourpaljake/hitfinding/internal/logging"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hitfind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Empty(t, cfg.Detection.Location)
	assert.InDelta(t, 1.0, cfg.Detection.Sigma, 0)
	assert.InDelta(t, 5.0, cfg.Detection.Threshold, 0)
	assert.Equal(t, config.DefaultMaxHits, cfg.Detection.MaxHits)
	assert.Zero(t, cfg.Dispatch.Workers, "files run all at once unless capped")
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, config.OutputPlot, cfg.Output.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("sections replace defaults", func(t *testing.T) {
		path := writeYAML(t, `
detection:
  location: data/
  sigma: 1.5
  threshold: 7
dispatch:
  workers: 3
unknown_section:
  foo: bar
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "data/", cfg.Detection.Location)
		assert.InDelta(t, 1.5, cfg.Detection.Sigma, 0)
		assert.InDelta(t, 7.0, cfg.Detection.Threshold, 0)
		// max_hits was absent from the replaced section and is re-defaulted.
		assert.Equal(t, config.DefaultMaxHits, cfg.Detection.MaxHits)
		assert.Equal(t, 3, cfg.Dispatch.Workers)
		// untouched sections keep their defaults
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := writeYAML(t, "detection:\n  sigma: -1\n  threshold: 5\n")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "detection.sigma must be positive")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeYAML(t, "detection: [unclosed\n")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing overlay YAML")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"zero sigma", func(c *config.Config) { c.Detection.Sigma = 0 }, "detection.sigma"},
		{"nan threshold", func(c *config.Config) { c.Detection.Threshold = math.NaN() }, "detection.threshold"},
		{"inf sigma", func(c *config.Config) { c.Detection.Sigma = math.Inf(1) }, "detection.sigma"},
		{"negative max hits", func(c *config.Config) { c.Detection.MaxHits = -1 }, "detection.max_hits"},
		{"bad output", func(c *config.Config) { c.Output.Format = "svg" }, "output.format"},
		{"cache without ttl", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.TTLSeconds = 0
		}, "cache.ttl_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithLocationOverride(t *testing.T) {
	cfg := config.New()
	cfg.Detection.Location = "configured/"

	assert.Same(t, cfg, cfg.WithLocationOverride(""))

	overridden := cfg.WithLocationOverride("frames/7.dat")
	assert.Equal(t, "frames/7.dat", overridden.Detection.Location)
	assert.Equal(t, "configured/", cfg.Detection.Location, "original must not be mutated")
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := config.New()
	cfg.Dispatch.Workers = 0
	assert.Zero(t, cfg.EffectiveWorkers())
	cfg.Dispatch.Workers = -3
	assert.Zero(t, cfg.EffectiveWorkers())
	cfg.Dispatch.Workers = 2
	assert.Equal(t, 2, cfg.EffectiveWorkers())
}

func TestLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "info", Format: "json"}
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)

	lc.File = "/var/log/hitfind.log"
	lcfg := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, lcfg.Output)
	assert.Equal(t, "/var/log/hitfind.log", lcfg.File)

	env := map[string]string{config.EnvLogLevel: "warn"}
	over := lc.WithEnvOverrides(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "warn", over.Level)
	assert.Equal(t, "json", over.Format)

	dbg := lc.ForDebug()
	assert.Equal(t, "debug", dbg.Level)
	assert.Empty(t, dbg.File)
}
