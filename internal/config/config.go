package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up inside the angkat base directory.
	FileName = "config.yaml"

	// DefaultListen matches the port the workout service has always used.
	DefaultListen = ":5598"
	// DefaultDatabase is resolved against the base directory when relative.
	DefaultDatabase = "workouts.db"
	// DefaultLogFile is resolved against the base directory when relative.
	DefaultLogFile = "angkat.log"
)

// Config is the optional on-disk configuration. Every field has a default,
// so a missing file is the same as an empty one.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Serve  ServeConfig  `yaml:"serve"`
	Log    LogConfig    `yaml:"log"`
}

// ClientConfig tunes the terminal client.
type ClientConfig struct {
	// DefaultAddress prefills the server-address form. It is never used
	// without the user submitting the form.
	DefaultAddress string `yaml:"default_address"`
}

// ServeConfig tunes `angkat serve`.
type ServeConfig struct {
	Listen   string `yaml:"listen"`
	Database string `yaml:"database"`
	Limit    int    `yaml:"limit"`
}

// LogConfig points the diagnostic log somewhere.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Serve: ServeConfig{
			Listen:   DefaultListen,
			Database: DefaultDatabase,
			Limit:    300,
		},
		Log: LogConfig{
			File:  DefaultLogFile,
			Level: "info",
		},
	}
}

// Load reads <baseDir>/config.yaml over the defaults and resolves relative
// paths against baseDir.
func Load(baseDir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(baseDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if cfg.Serve.Listen == "" {
		cfg.Serve.Listen = DefaultListen
	}
	if cfg.Serve.Database == "" {
		cfg.Serve.Database = DefaultDatabase
	}
	if cfg.Serve.Limit <= 0 {
		cfg.Serve.Limit = 300
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	cfg.Serve.Database = resolve(baseDir, cfg.Serve.Database)
	cfg.Log.File = resolve(baseDir, cfg.Log.File)
	return cfg, nil
}

func resolve(baseDir, path string) string {
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
