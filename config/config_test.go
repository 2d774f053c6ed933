package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codyd51/axle-sub000/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, [4]int{10, 20, 30, 40}, cfg.SchedulerQuanta)
	assert.Equal(t, 1000, cfg.BoostPeriodMs)
	assert.Equal(t, 5, cfg.IdleQuantumMs)
	assert.True(t, cfg.IsTelemetryEnabled())
}

func TestLoadConfigFrom_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)

	cfg := config.DefaultConfig()
	cfg.ScreenWidth = 1920
	cfg.ScreenHeight = 1080
	cfg.SchedulerQuanta = [4]int{5, 15, 25, 35}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, writeTOML(f, cfg))
	require.NoError(t, f.Close())

	loaded, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 1920, loaded.ScreenWidth)
	assert.Equal(t, 1080, loaded.ScreenHeight)
	assert.Equal(t, [4]int{5, 15, 25, 35}, loaded.SchedulerQuanta)
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	_, err := config.LoadConfigFrom("/nonexistent/axle/config.toml")
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func writeTOML(f *os.File, cfg *config.Config) error {
	return config.SaveConfigTo(f, cfg)
}
