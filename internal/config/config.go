// Package config loads CLI defaults from ~/.workbook/config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the config file.
const (
	EnvLogLevel         = "WORKBOOK_LOG_LEVEL"
	EnvLogFormat        = "WORKBOOK_LOG_FORMAT"
	EnvSheetName        = "WORKBOOK_SHEET_NAME"
	EnvIncludeEmptyRows = "WORKBOOK_INCLUDE_EMPTY_ROWS"
)

// Config holds the CLI defaults. Flags given on the command line win over
// every field.
type Config struct {
	LogLevel         string `yaml:"log-level,omitempty"`
	LogFormat        string `yaml:"log-format,omitempty"`
	SheetName        string `yaml:"sheet-name,omitempty"`
	StartCell        string `yaml:"start-cell,omitempty"`
	IncludeEmptyRows bool   `yaml:"include-empty-rows,omitempty"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		SheetName: "Sheet1",
		StartCell: "A1",
	}
}

// Dir returns the path to ~/.workbook/.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".workbook")
}

// Path returns the path to ~/.workbook/config.yaml.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path means Path(). A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvSheetName); ok && v != "" {
		c.SheetName = v
	}
	if v, ok := lookup(EnvIncludeEmptyRows); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIncludeEmptyRows, err)
		}
		c.IncludeEmptyRows = b
	}
	return nil
}
