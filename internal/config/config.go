// Package config loads scope's settings.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML file
// ($XDG_CONFIG_HOME/scope/config.yaml unless a path is given), and SCOPE_*
// environment variables. Command-line flags are applied on top by cmd/scope.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvArtifact    = "SCOPE_ARTIFACT"
	EnvLogLevel    = "SCOPE_LOG_LEVEL"
	EnvStepTimeout = "SCOPE_STEP_TIMEOUT"
)

// OCR backends.
const (
	BackendCLI       = "cli"
	BackendGosseract = "gosseract"
)

// Tools names the binary behind each external capability.
type Tools struct {
	RegionSelect string `yaml:"region_select"`
	Capture      string `yaml:"capture"`
	Recognize    string `yaml:"recognize"`

	// Clipboard is the preferred clipboard utility for the preflight check.
	// xclip, xsel and wl-copy are all accepted; the copy itself uses
	// whichever one the clipboard library finds.
	Clipboard string `yaml:"clipboard"`

	Notify string `yaml:"notify"`
}

// OCR holds recognition settings.
type OCR struct {
	// Backend is "cli" (tesseract binary) or "gosseract" (in-process, needs
	// the gosseract build tag).
	Backend string `yaml:"backend"`

	// FallbackLanguage is used when no installed language pack is usable.
	FallbackLanguage string `yaml:"fallback_language"`

	// ExtraArgs are appended to the tesseract invocation, e.g. ["--psm", "6"].
	ExtraArgs []string `yaml:"extra_args"`

	// Placeholder is shown when recognition yields nothing.
	Placeholder string `yaml:"placeholder"`

	Enhance Enhance `yaml:"enhance"`
}

// Enhance controls preprocessing of the capture before recognition.
type Enhance struct {
	Enabled bool `yaml:"enabled"`

	// MinHeight upscales captures shorter than this many pixels.
	MinHeight int `yaml:"min_height"`

	// Threshold binarizes the grayscale image at this level (0 disables).
	Threshold uint8 `yaml:"threshold"`

	// InvertDark inverts captures whose mean lightness is below 50%.
	InvertDark bool `yaml:"invert_dark"`
}

// Config is the full application configuration.
type Config struct {
	AppName     string        `yaml:"app_name"`
	Artifact    string        `yaml:"artifact"`
	LogLevel    string        `yaml:"log_level"`
	StepTimeout time.Duration `yaml:"step_timeout"`
	Tools       Tools         `yaml:"tools"`
	OCR         OCR           `yaml:"ocr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AppName:     "Scope",
		Artifact:    filepath.Join(os.TempDir(), "snap.png"),
		LogLevel:    "warn",
		StepTimeout: 30 * time.Second,
		Tools: Tools{
			RegionSelect: "slop",
			Capture:      "maim",
			Recognize:    "tesseract",
			Clipboard:    "xclip",
			Notify:       "notify-send",
		},
		OCR: OCR{
			Backend:          BackendCLI,
			FallbackLanguage: "eng",
			Placeholder:      "No text found.",
			Enhance: Enhance{
				MinHeight:  64,
				Threshold:  0,
				InvertDark: true,
			},
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scope", "config.yaml")
}

// Load reads the YAML file at path over the defaults, then applies env
// overrides. A missing file is not an error; an empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvArtifact); ok && v != "" {
		c.Artifact = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvStepTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvStepTimeout, err)
		}
		c.StepTimeout = d
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Artifact) == "" {
		problems = append(problems, "artifact path is empty")
	}
	if c.StepTimeout < 0 {
		problems = append(problems, "step_timeout must not be negative")
	}
	for name, bin := range map[string]string{
		"region_select": c.Tools.RegionSelect,
		"capture":       c.Tools.Capture,
		"recognize":     c.Tools.Recognize,
		"clipboard":     c.Tools.Clipboard,
	} {
		if strings.TrimSpace(bin) == "" {
			problems = append(problems, fmt.Sprintf("tools.%s is empty", name))
		}
	}
	switch c.OCR.Backend {
	case BackendCLI, BackendGosseract:
	default:
		problems = append(problems, fmt.Sprintf("unknown ocr.backend %q", c.OCR.Backend))
	}
	if strings.TrimSpace(c.OCR.FallbackLanguage) == "" {
		problems = append(problems, "ocr.fallback_language is empty")
	}
	if c.OCR.Placeholder == "" {
		problems = append(problems, "ocr.placeholder is empty")
	}
	if c.OCR.Enhance.MinHeight < 0 {
		problems = append(problems, "ocr.enhance.min_height must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	// Map iteration order is random; keep the message stable.
	sort.Strings(problems)
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
