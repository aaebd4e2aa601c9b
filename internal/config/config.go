// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data struct {
		Dir            string `yaml:"dir"`
		Table          string `yaml:"table"`
		ResumeDir      string `yaml:"resume_dir"`
		CoverLetterDir string `yaml:"cover_letter_dir"`
	} `yaml:"data"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
		File  string `yaml:"file"`
	} `yaml:"log"`

	Display struct {
		Color string `yaml:"color"` // auto | always | never
	} `yaml:"display"`
}

func Default() Config {
	var cfg Config
	cfg.Data.Dir = "db"
	cfg.Data.Table = "data.csv"
	cfg.Data.ResumeDir = "resumes"
	cfg.Data.CoverLetterDir = "coverLetters"
	cfg.Log.Level = "info"
	cfg.Log.File = "appli.log"
	cfg.Display.Color = "auto"
	return cfg
}

// Load reads path over the defaults, so a partial file is fine.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Bootstrap is the startup path: make sure home has a config file, read it,
// apply .env and APPLI_* overrides, normalise, then resolve paths against home.
// A config with validation errors is returned as an error.
func Bootstrap(home string) (Config, Validation, error) {
	path, _, err := EnsureUserConfig(home)
	if err != nil {
		return Config{}, Validation{}, err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, Validation{}, err
	}
	if err := OverlayEnv(&cfg, home); err != nil {
		return Config{}, Validation{}, err
	}
	cfg, res := NormalizeAndValidate(cfg)
	if err := res.Err(); err != nil {
		return Config{}, res, err
	}
	return cfg.Resolve(home), res, nil
}

// Resolve makes relative data and log paths relative to home.
func (c Config) Resolve(home string) Config {
	if c.Data.Dir != "" && !filepath.IsAbs(c.Data.Dir) {
		c.Data.Dir = filepath.Join(home, c.Data.Dir)
	}
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(home, c.Log.File)
	}
	return c
}
