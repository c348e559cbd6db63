// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr            string `env:"ADDR" envDefault:":8080"`
	MaxUploadMB     int    `env:"MAX_UPLOAD_MB" envDefault:"32"`
	TesseractBinary string `env:"TESSERACT_BINARY" envDefault:"tesseract"`
	TesseractLang   string `env:"TESSERACT_LANG" envDefault:"eng"`
	TesseractPSM    string `env:"TESSERACT_PSM" envDefault:"4"`
	LogPretty       bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}
