// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config loads checker configuration from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/typeutil"
	"github.com/wdamron/rowinfer/types"
)

// Config represents a rowinfer.yaml configuration.
type Config struct {
	Limits Limits `yaml:"limits"`

	// Workers is the maximum number of modules checked concurrently.
	// Defaults to GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`

	// Validate checks the structure of solved types after each top-level definition group.
	// Violations are reported as internal errors. Intended for debugging the checker.
	Validate bool `yaml:"validate,omitempty"`

	// Color is `auto`, `always` or `never`.
	Color string `yaml:"color,omitempty"`

	// LogLevel is `debug`, `info`, `warn` or `error`. Defaults to `warn`.
	LogLevel string `yaml:"log_level,omitempty"`

	// Prelude maps names to type signatures, declared in every module checked:
	//
	//   prelude:
	//     add: (Int, Int) -> Int
	//     map: (List[a], a -> b) -> List[b]
	Prelude map[string]string `yaml:"prelude,omitempty"`
}

// Limits bound the work done for a single constraint, so that pathological programs produce a
// diagnostic instead of exhausting the stack or memory.
type Limits struct {
	MaxUnifyDepth        int `yaml:"max_unify_depth,omitempty"`
	MaxInstantiationSize int `yaml:"max_instantiation_size,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses configuration from bytes.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Limits.MaxUnifyDepth < 0 {
		return fmt.Errorf("%s: limits.max_unify_depth must not be negative", path)
	}
	if c.Limits.MaxInstantiationSize < 0 {
		return fmt.Errorf("%s: limits.max_instantiation_size must not be negative", path)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%s: workers must not be negative", path)
	}
	if _, err := diagnostics.ParseColorMode(c.Color); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	names := maps.Keys(c.Prelude)
	slices.Sort(names)
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%s: prelude: empty name", path)
		}
		if _, err := types.ParseSignature(c.Prelude[name]); err != nil {
			return fmt.Errorf("%s: prelude %s: %w", path, name, err)
		}
	}
	return nil
}

// setDefaults fills in default values for optional fields.
func (c *Config) setDefaults() {
	if c.Limits.MaxUnifyDepth == 0 {
		c.Limits.MaxUnifyDepth = typeutil.DefaultMaxUnifyDepth
	}
	if c.Limits.MaxInstantiationSize == 0 {
		c.Limits.MaxInstantiationSize = typeutil.DefaultMaxInstantiationSize
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// ColorMode returns the configured color mode of the diagnostics emitter.
func (c *Config) ColorMode() diagnostics.ColorMode {
	mode, _ := diagnostics.ParseColorMode(c.Color)
	return mode
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
