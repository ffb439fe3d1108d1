package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"playcraft/internal/catalog"
	"playcraft/internal/logger"
	"playcraft/internal/preview"
)

// DefaultPath is the configuration file read when none is given
const DefaultPath = ".env"

type Config struct {
	Catalog catalog.Config
	Preview preview.FFmpegConfig
	Log     logger.Config

	DebounceDelay time.Duration `yaml:"DEBOUNCE_DELAY" env:"DEBOUNCE_DELAY" env-default:"350ms"`
	ExportDir     string        `yaml:"EXPORT_DIR" env:"EXPORT_DIR" env-default:"."`
}

// Load reads the configuration. A .env file is loaded into the environment
// first, without overriding variables that are already set; yaml, json and
// toml files are read by cleanenv. Environment variables always win.
// A missing file at DefaultPath is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	_, statErr := os.Stat(path)

	switch {
	case errors.Is(statErr, os.ErrNotExist) && path == DefaultPath:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
	case statErr != nil:
		return nil, fmt.Errorf("failed to load config %s: %v", path, statErr)
	case isDotEnv(path):
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %v", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
	default:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %v", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cleanenv cannot
func (cfg *Config) Validate() error {
	if _, err := catalog.New(cfg.Catalog); err != nil {
		return fmt.Errorf("config validation error: %v", err)
	}
	if cfg.DebounceDelay <= 0 {
		return fmt.Errorf("config validation error: DEBOUNCE_DELAY must be positive, got %s", cfg.DebounceDelay)
	}
	if cfg.Catalog.Timeout <= 0 {
		return fmt.Errorf("config validation error: HTTP_TIMEOUT must be positive, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Preview.Limit <= 0 {
		return fmt.Errorf("config validation error: PREVIEW_LIMIT must be positive, got %s", cfg.Preview.Limit)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("config validation error: invalid LOG_LEVEL %s (must be one of: DEBUG, INFO, WARN, ERROR)", cfg.Log.Level)
	}
	return nil
}

// Usage returns a description of every environment variable
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

func isDotEnv(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasSuffix(base, ".env")
}
