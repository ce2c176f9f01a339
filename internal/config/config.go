// Package config loads server settings from built-in defaults, an optional
// YAML file named by CONFIG_FILE, then environment variables, each layer
// overriding the one before.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Log struct {
	Level      string `env:"LOG_LEVEL"        yaml:"level"        validate:"oneof=debug info warn error"`
	Format     string `env:"LOG_FORMAT"       yaml:"format"       validate:"oneof=json console"`
	File       string `env:"LOG_FILE"         yaml:"file"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  yaml:"max_size_mb"  validate:"gte=1"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS"  yaml:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" yaml:"max_age_days" validate:"gte=0"`
}

type Config struct {
	Addr              string        `env:"ADDR"                yaml:"addr"                validate:"required"`
	CharasheetBaseURL string        `env:"CHARASHEET_BASE_URL" yaml:"charasheet_base_url" validate:"required,url"`
	CharasheetHost    string        `env:"CHARASHEET_HOST"     yaml:"charasheet_host"     validate:"required,hostname_rfc1123"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT"       yaml:"fetch_timeout"       validate:"min=1s,max=5m"`
	TemplatesDir      string        `env:"TEMPLATES_DIR"       yaml:"templates_dir"       validate:"required"`
	StaticDir         string        `env:"STATIC_DIR"          yaml:"static_dir"`
	AuthDBPath        string        `env:"AUTH_DB_PATH"        yaml:"auth_db_path"        validate:"required"`
	PDFFontPath       string        `env:"PDF_FONT_PATH"       yaml:"pdf_font_path"`
	CORSOrigins       []string      `env:"CORS_ORIGINS"        yaml:"cors_origins"        envSeparator:","`
	CookieSecure      bool          `env:"COOKIE_SECURE"       yaml:"cookie_secure"`
	Log               Log           `yaml:"log"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:              ":8080",
		CharasheetBaseURL: "https://charasheet.vampire-blood.net",
		CharasheetHost:    "charasheet.vampire-blood.net",
		FetchTimeout:      15 * time.Second,
		TemplatesDir:      "templates",
		StaticDir:         "static",
		AuthDBPath:        "./dollsheet.db",
		CORSOrigins:       []string{"*"},
		Log: Log{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

var validate = validator.New()

// Load builds the effective configuration.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Unset variables
// leave the existing field values alone.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
