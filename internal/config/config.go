// Package config provides configuration loading and validation for the CLI.
// Values come from, in increasing priority: defaults, environment variables,
// an optional JSON config file, and command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for settings that may be left unset.
const (
	DefaultDataPath       = "data/links.json"
	DefaultLinksPath      = "links.md"
	DefaultTimeoutSeconds = 12
	DefaultMaxConcurrency = 8
	DefaultModel          = "gemini-2.5-flash-lite"
)

// Settings holds the process-wide configuration, read once at startup.
type Settings struct {
	// DataPath is the JSON link store location.
	DataPath string `json:"data_path,omitempty" validate:"required"`
	// LinksPath is the input text file scanned for URLs.
	LinksPath string `json:"links_path,omitempty" validate:"required"`
	// TimeoutSeconds bounds each page fetch.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"min=1"`
	// MaxConcurrency caps in-flight classify+store units.
	MaxConcurrency int `json:"max_concurrency,omitempty" validate:"min=1"`
	// APIKey is the Gemini API key. Required: its absence is a fatal startup condition.
	APIKey string `json:"api_key,omitempty" validate:"required"`
	// Model is the Gemini model name used for classification.
	Model string `json:"model,omitempty" validate:"required"`
	// UseBrowser enables headless-browser rendering for JS-heavy pages.
	UseBrowser bool `json:"use_browser,omitempty"`
	// Verbose prints per-link detail during processing.
	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns a Settings populated with default values.
func Defaults() Settings {
	return Settings{
		DataPath:       DefaultDataPath,
		LinksPath:      DefaultLinksPath,
		TimeoutSeconds: DefaultTimeoutSeconds,
		MaxConcurrency: DefaultMaxConcurrency,
		Model:          DefaultModel,
	}
}

// FromEnv returns Settings populated from defaults overridden by environment
// variables (LINKSHELF_* plus GEMINI_API_KEY).
func FromEnv() Settings {
	s := Defaults()
	if v := os.Getenv("LINKSHELF_DATA_PATH"); v != "" {
		s.DataPath = v
	}
	if v := os.Getenv("LINKSHELF_LINKS_PATH"); v != "" {
		s.LinksPath = v
	}
	if v := os.Getenv("LINKSHELF_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("LINKSHELF_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxConcurrency = n
		}
	}
	if v := os.Getenv("LINKSHELF_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		s.APIKey = v
	}
	return s
}

// LoadFile reads a JSON config file and overlays its non-zero values on base.
func LoadFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Settings
	if err := json.Unmarshal(data, &file); err != nil {
		return base, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return base.mergeFrom(file), nil
}

// mergeFrom overlays non-zero values from other onto s.
func (s Settings) mergeFrom(other Settings) Settings {
	result := s
	if other.DataPath != "" {
		result.DataPath = other.DataPath
	}
	if other.LinksPath != "" {
		result.LinksPath = other.LinksPath
	}
	if other.TimeoutSeconds != 0 {
		result.TimeoutSeconds = other.TimeoutSeconds
	}
	if other.MaxConcurrency != 0 {
		result.MaxConcurrency = other.MaxConcurrency
	}
	if other.APIKey != "" {
		result.APIKey = other.APIKey
	}
	if other.Model != "" {
		result.Model = other.Model
	}
	if other.UseBrowser {
		result.UseBrowser = true
	}
	if other.Verbose {
		result.Verbose = true
	}
	return result
}

// Validate checks the settings with struct-tag validation. A missing API key
// surfaces here as a startup fault.
func (s Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		if s.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required: set it in .env or the environment")
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Timeout returns the fetch timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
