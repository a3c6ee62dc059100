package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "snowplan.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 4, cfg.Analyze.Concurrency)

	assert.InDelta(t, 50000, cfg.Scenario.SlopeArea, 0.001)
	assert.InDelta(t, 0.5, cfg.Scenario.TargetDepth, 0.001)
	assert.Equal(t, time.November, cfg.Scenario.SeasonStart)
	assert.Equal(t, time.March, cfg.Scenario.SeasonEnd)
	assert.InDelta(t, 200, cfg.Scenario.WaterRatio, 0.001)
	assert.InDelta(t, 5, cfg.Scenario.EnergyRatio, 0.001)
	assert.InDelta(t, 0.002, cfg.Scenario.WaterPrice, 0.0001)
	assert.InDelta(t, 0.25, cfg.Scenario.EnergyPrice, 0.001)
	assert.InDelta(t, 0.2, cfg.Scenario.AdditiveEfficiency, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/snowplan
log:
  level: debug
  format: console
server:
  port: 9090
scenario:
  slope_area_m2: 10000
  target_depth_m: 0.3
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 10000, cfg.Scenario.SlopeArea, 0.001)
	assert.InDelta(t, 0.3, cfg.Scenario.TargetDepth, 0.001)
	// Defaults still apply for unset values
	assert.InDelta(t, 200, cfg.Scenario.WaterRatio, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SNOWPLAN_STORE_DRIVER", "postgres")
	t.Setenv("SNOWPLAN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("SNOWPLAN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
