package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourpaljake/hitfinding/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Detection: config.DetectionConfig{
			Location:  "frames/",
			Sigma:     1,
			Threshold: 5,
			MaxHits:   100,
		},
		Dispatch: config.DispatchConfig{Workers: 4},
		Cache: config.CacheConfig{
			Enabled:    true,
			Directory:  "/tmp/hitfind",
			TTLSeconds: 3600,
		},
		Output:  config.OutputConfig{Format: "plot"},
		Logging: config.LoggingConfig{Level: "info", Format: "console"},
	}
}

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
dispatch:
  workers: 16
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 16, target.Dispatch.Workers)

	// Other sections should be unchanged.
	assert.Equal(t, "frames/", target.Detection.Location)
	assert.True(t, target.Cache.Enabled)
	assert.Equal(t, "info", target.Logging.Level)
}

func TestShallowMergeYAML_SectionIsReplacedWholesale(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
detection:
  sigma: 2.5
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.InDelta(t, 2.5, target.Detection.Sigma, 0)
	// Fields missing from the overlay section are zeroed, not merged.
	assert.Empty(t, target.Detection.Location)
	assert.Zero(t, target.Detection.Threshold)
	assert.Zero(t, target.Detection.MaxHits)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  format: json
logging:
  level: debug
  format: json
  file: /var/log/hitfind.log
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.Format)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "/var/log/hitfind.log", target.Logging.File)
	assert.Equal(t, 4, target.Dispatch.Workers)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "# only a comment\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, newDefaultTarget(), target)
}

func TestShallowMergeYAML_NilTarget(t *testing.T) {
	err := config.ShallowMergeYAML(nil, "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil target")
}

func TestShallowMergeYAML_TypeMismatch(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
dispatch:
  workers: many
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `applying overlay section "dispatch"`)
}
