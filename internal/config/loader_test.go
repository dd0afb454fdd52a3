package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fittrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ModeDemo, cfg.Backend.EffectiveMode())
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":9999"
log:
  level: debug
rateLimit:
  presets:
    auth:
      limit: 3
      window: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.MetricsAddress, "unset fields keep defaults")

	preset := cfg.RateLimit.Presets["auth"]
	assert.Equal(t, 3, preset.Limit)
	assert.Equal(t, 5*time.Minute, preset.Window.Duration())
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("FITTRACK_TEST_ADDR", ":7777")

	path := writeConfigFile(t, `
server:
  address: "${FITTRACK_TEST_ADDR}"
  metricsAddress: "${FITTRACK_TEST_METRICS:-:9191}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, ":9191", cfg.Server.MetricsAddress, "unset variable falls back to default")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: loud
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDuration_Unmarshal(t *testing.T) {
	path := writeConfigFile(t, `
server:
  readTimeout: 45s
  shutdownTimeout: 1m30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, 90*time.Second, cfg.Server.ShutdownTimeout.Duration())
}

func TestDuration_InvalidValue(t *testing.T) {
	path := writeConfigFile(t, `
server:
  readTimeout: sideways
`)
	_, err := Load(path)
	assert.Error(t, err)
}
