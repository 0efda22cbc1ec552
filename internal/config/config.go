// Package config loads runtime settings for the GestureAI core from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Gesture definitions live in their own
// JSON catalog (internal/gesture); everything here is plain process tuning.
type Config struct {
	CameraID     int    `env:"GESTUREAI_CAMERA_ID" envDefault:"0"`
	CameraWidth  int    `env:"GESTUREAI_CAMERA_WIDTH" envDefault:"640"`
	CameraHeight int    `env:"GESTUREAI_CAMERA_HEIGHT" envDefault:"480"`
	TargetFPS    int    `env:"GESTUREAI_TARGET_FPS" envDefault:"30"`
	ListenAddr   string `env:"GESTUREAI_LISTEN_ADDR" envDefault:":8080"`

	// DataDir defaults to ~/.gestureai and holds the gesture catalog and
	// the history database.
	DataDir     string `env:"GESTUREAI_DATA_DIR"`
	CatalogFile string `env:"GESTUREAI_CATALOG_FILE" envDefault:"gestures.json"`
	HistoryFile string `env:"GESTUREAI_HISTORY_FILE" envDefault:"history.db"`

	// Hold-and-confirm timings for critical actions.
	HoldArm     time.Duration `env:"GESTUREAI_HOLD_ARM" envDefault:"3s"`
	HoldConfirm time.Duration `env:"GESTUREAI_HOLD_CONFIRM" envDefault:"1s"`
	HoldWindow  time.Duration `env:"GESTUREAI_HOLD_WINDOW" envDefault:"5s"`

	// ActionTimeout bounds how long a fired OS action may run.
	ActionTimeout time.Duration `env:"GESTUREAI_ACTION_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config and fills in derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".gestureai")
	}

	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 30
	}

	return cfg, nil
}

// CatalogPath returns the absolute path of the gesture catalog file.
func (c Config) CatalogPath() string {
	return filepath.Join(c.DataDir, c.CatalogFile)
}

// HistoryPath returns the absolute path of the history database.
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, c.HistoryFile)
}

// FrameInterval is the minimum time between processed frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.TargetFPS)
}
