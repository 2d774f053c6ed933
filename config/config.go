// Package config loads the runtime configuration for the simulated kernel
// and AWM: MLFQ quanta, screen geometry, and telemetry opt-in. This is the
// only persisted state in the module — spec.md §6 documents no persisted
// task/window/message state, and this file configures the simulation
// rather than representing any of it.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/codyd51/axle-sub000/log"
)

// ConfigFileName is the TOML file read from the config directory.
const ConfigFileName = "config.toml"

// Config is the full set of tunables for a boot of the kernel + AWM
// simulation.
type Config struct {
	// Scheduler holds the MLFQ quanta, in milliseconds, for queues Q0..Q3.
	// spec.md §4.3 fixes these at {10, 20, 30, 40} by default.
	SchedulerQuanta [4]int `toml:"scheduler_quanta_ms"`
	// BoostPeriodMs is the priority-boost period: once at least this many ms
	// have passed since the last boost, the scheduler's next boost check
	// promotes every task back to Q0. spec.md §4.3: ~1000ms.
	BoostPeriodMs int `toml:"boost_period_ms"`
	// IdleQuantumMs is the configured quantum for the per-CPU idle task
	// (spec.md §4.3: 5ms). sched.NewMLFQ stores it but does not use it: there
	// is no idle task, and a round with no runnable task runs nothing.
	IdleQuantumMs int `toml:"idle_quantum_ms"`

	// ScreenWidth and ScreenHeight are the framebuffer dimensions AWM
	// negotiates with the kernel at boot (spec.md §6).
	ScreenWidth  int `toml:"screen_width"`
	ScreenHeight int `toml:"screen_height"`
	// BytesPerPixel sizes the per-window shared memory region
	// (screen_width * screen_height * bytes_per_pixel, spec.md §4.6).
	BytesPerPixel int `toml:"bytes_per_pixel"`

	// DoubleClickMs is the configured double-click window (spec.md §4.8). No
	// package reads it: there are no desktop shortcuts, and loop.New gives
	// input.NewState a fixed 500ms.
	DoubleClickMs int `toml:"double_click_ms"`
	// AnimationTickMs is the cadence AWM arms its timer at while any
	// animation is in flight (spec.md §4.10): 16ms ~= 60fps.
	AnimationTickMs int `toml:"animation_tick_ms"`

	// TelemetryEnabled controls whether fatal-fault reporting via Sentry is
	// active. Defaults to true when not set.
	TelemetryEnabled *bool `toml:"telemetry_enabled"`
	// Debug raises the shared logger to Debug level.
	Debug bool `toml:"debug"`
	// AuditDBPath is where the task/window lifecycle journal is written.
	// Empty disables the journal: events are discarded, nothing is recorded.
	AuditDBPath string `toml:"audit_db_path"`
}

// DefaultConfig returns the configuration used when no TOML file is present.
func DefaultConfig() *Config {
	telemetryEnabled := true
	return &Config{
		SchedulerQuanta:  [4]int{10, 20, 30, 40},
		BoostPeriodMs:    1000,
		IdleQuantumMs:    5,
		ScreenWidth:      1280,
		ScreenHeight:     800,
		BytesPerPixel:    4,
		DoubleClickMs:    500,
		AnimationTickMs:  16,
		TelemetryEnabled: &telemetryEnabled,
		AuditDBPath:      "",
	}
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled. Defaults
// to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// GetConfigDir returns the path to axle's configuration directory,
// $XDG_CONFIG_HOME/axle or ~/.config/axle.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "axle"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "axle"), nil
}

// LoadConfig reads the TOML config from the config directory, falling back
// to DefaultConfig (and persisting it) when no file exists.
func LoadConfig() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		log.L().Warn("failed to get config directory, using defaults", "err", err)
		return DefaultConfig()
	}

	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		if os.IsNotExist(err) {
			def := DefaultConfig()
			if saveErr := SaveConfig(def); saveErr != nil {
				log.L().Warn("failed to save default config", "err", saveErr)
			}
			return def
		}
		log.L().Warn("failed to load config, using defaults", "err", err)
		return DefaultConfig()
	}
	return cfg
}

// LoadConfigFrom parses a TOML config file at the given path, filling in
// any zero-valued fields from DefaultConfig.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.SchedulerQuanta == ([4]int{}) {
		cfg.SchedulerQuanta = [4]int{10, 20, 30, 40}
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML to the config directory, creating it if
// necessary.
func SaveConfig(cfg *Config) error {
	dir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("get config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	return SaveConfigTo(f, cfg)
}

// SaveConfigTo writes cfg as TOML to an arbitrary writer; exposed so tests
// can round-trip through a temp file without touching the real config dir.
func SaveConfigTo(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
