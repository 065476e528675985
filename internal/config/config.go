// Package config loads server settings from an optional YAML file, an
// optional .env file, and the environment, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dicetray/internal/animate"
)

type Config struct {
	Addr         string    `yaml:"addr" env:"DICETRAY_ADDR"`
	LogLevel     string    `yaml:"log_level" env:"LOG_LEVEL"`
	ImagesDir    string    `yaml:"images_dir" env:"DICETRAY_IMAGES_DIR"`
	AudioFile    string    `yaml:"audio_file" env:"DICETRAY_AUDIO_FILE"`
	TemplatesDir string    `yaml:"templates_dir" env:"DICETRAY_TEMPLATES_DIR"`
	Animation    Animation `yaml:"animation" envPrefix:"DICETRAY_"`
}

// Animation holds the timing for both roll paths.
type Animation struct {
	Batch   animate.Params `yaml:"batch" envPrefix:"BATCH_"`
	Instant animate.Params `yaml:"instant" envPrefix:"INSTANT_"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:         ":8080",
		LogLevel:     "info",
		ImagesDir:    filepath.Join("static", "images"),
		AudioFile:    filepath.Join("static", "audio", "roll.wav"),
		TemplatesDir: "templates",
		Animation: Animation{
			Batch:   animate.BatchParams,
			Instant: animate.InstantParams,
		},
	}
}

// Load reads yamlPath and envFile when they exist, then applies environment
// overrides. Missing files are not an error; unreadable or malformed ones
// are.
func Load(yamlPath, envFile string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		b, err := os.ReadFile(filepath.Clean(yamlPath)) //nolint:gosec // operator-supplied path
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", yamlPath, err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the tray cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if err := validateParams("batch", c.Animation.Batch); err != nil {
		return err
	}
	return validateParams("instant", c.Animation.Instant)
}

func validateParams(name string, p animate.Params) error {
	switch {
	case p.MinDuration < 0 || p.MaxDuration < p.MinDuration:
		return fmt.Errorf("config: %s duration range %v-%v is invalid", name, p.MinDuration, p.MaxDuration)
	case p.MinInterval <= 0 || p.MaxInterval < p.MinInterval:
		return fmt.Errorf("config: %s interval range %v-%v is invalid", name, p.MinInterval, p.MaxInterval)
	}
	return nil
}
