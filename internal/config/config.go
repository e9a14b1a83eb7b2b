package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DECKSPAWN_"

// Config represents the application configuration
type Config struct {
	BaseURL          string        `toml:"base_url" env:"BASE_URL"`
	SiteHost         string        `toml:"site_host" env:"SITE_HOST"`
	CardBack         string        `toml:"card_back" env:"CARD_BACK"`
	PlaceholderImage string        `toml:"placeholder_image" env:"PLACEHOLDER_IMAGE"`
	FaceDown         bool          `toml:"face_down" env:"FACE_DOWN"`
	ZoneTimeout      time.Duration `toml:"zone_timeout" env:"ZONE_TIMEOUT"`
	ImportTimeout    time.Duration `toml:"import_timeout" env:"IMPORT_TIMEOUT"`
	OriginX          float64       `toml:"origin_x" env:"ORIGIN_X"`
	OriginY          float64       `toml:"origin_y" env:"ORIGIN_Y"`
	OriginZ          float64       `toml:"origin_z" env:"ORIGIN_Z"`
	ZoneStep         float64       `toml:"zone_step" env:"ZONE_STEP"`
	LogLevel         string        `toml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BaseURL:       "https://decks.example.com",
		SiteHost:      "decks.example.com",
		ZoneTimeout:   20 * time.Second,
		ImportTimeout: 60 * time.Second,
		OriginY:       1,
		ZoneStep:      3,
		LogLevel:      "warn",
	}
}

// Validate checks values that would make an import misbehave
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if c.ZoneTimeout <= 0 {
		errs = append(errs, fmt.Errorf("zone_timeout must be positive, got %s", c.ZoneTimeout))
	}
	if c.ImportTimeout <= 0 {
		errs = append(errs, fmt.Errorf("import_timeout must be positive, got %s", c.ImportTimeout))
	}
	if c.ZoneStep <= 0 {
		errs = append(errs, fmt.Errorf("zone_step must be positive, got %g", c.ZoneStep))
	}
	return errors.Join(errs...)
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "deckspawn", "config.toml")
}

// LoadConfig loads the config file, creating it with defaults when missing,
// then applies DECKSPAWN_* environment overrides. A non-empty envFile is read
// into the environment first; variables already set win.
func LoadConfig(envFile string) (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath(), envFile)
}

// LoadConfigFrom is LoadConfig for an explicit config path
func LoadConfigFrom(configPath, envFile string) (*Config, error) {
	var config *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err = createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg := Default()
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
		config = &cfg
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	config := Default()
	if err := Save(configPath, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes config to configPath
func Save(configPath string, config *Config) error {
	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}
