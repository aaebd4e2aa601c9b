// config/overlay.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the yaml file.
const (
	EnvHome     = "APPLI_HOME"
	EnvDataDir  = "APPLI_DATA_DIR"
	EnvLogLevel = "APPLI_LOG_LEVEL"
	EnvColor    = "APPLI_COLOR"
)

// OverlayEnv loads <home>/.env into the process environment (existing
// variables win) and applies the APPLI_* overrides to cfg.
func OverlayEnv(cfg *Config, home string) error {
	err := godotenv.Load(filepath.Join(home, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Data.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvColor)); v != "" {
		cfg.Display.Color = strings.ToLower(v)
	}
	return nil
}
