// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is a single pattern replacement
type Rule struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Pattern string   `json:"pattern" yaml:"pattern" toml:"pattern"`
	Replace string   `json:"replace" yaml:"replace" toml:"replace"`
	Literal bool     `json:"literal,omitempty" yaml:"literal,omitempty" toml:"literal,omitempty"`
	Files   []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
}

// 🔧 Options tunes how a run behaves
type Options struct {
	MaxPasses    int    `json:"max_passes,omitempty" yaml:"max_passes,omitempty" toml:"max_passes,omitempty"`
	KeepGoing    bool   `json:"keep_going,omitempty" yaml:"keep_going,omitempty" toml:"keep_going,omitempty"`
	AtomicWrite  bool   `json:"atomic_write,omitempty" yaml:"atomic_write,omitempty" toml:"atomic_write,omitempty"`
	MatchTimeout string `json:"match_timeout,omitempty" yaml:"match_timeout,omitempty" toml:"match_timeout,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	BaseDir     string   `json:"base_dir,omitempty" yaml:"base_dir,omitempty" toml:"base_dir,omitempty"`
	Files       []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
	Globs       []string `json:"globs,omitempty" yaml:"globs,omitempty" toml:"globs,omitempty"`
	Presets     []string `json:"presets,omitempty" yaml:"presets,omitempty" toml:"presets,omitempty"`
	Rules       []Rule   `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
	Options     Options  `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`

	location     string
	matchTimeout time.Duration
}

// 🎯 Load loads the configuration from a file. A relative base_dir is resolved
// against the config file's directory; an empty one defaults to that directory.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	dir := filepath.Dir(path)
	switch {
	case cfg.BaseDir == "":
		cfg.BaseDir = dir
	case !filepath.IsAbs(cfg.BaseDir):
		cfg.BaseDir = filepath.Join(dir, cfg.BaseDir)
	}

	abs, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base_dir: %w", err)
	}
	cfg.BaseDir = abs

	logger.Debug().Str("base_dir", cfg.BaseDir).Int("rules", len(cfg.Rules)).Strs("presets", cfg.Presets).Msg("configuration loaded")
	return cfg, nil
}

// Parse decodes data with the parser registered for filename and validates the result.
// Extensionless .rewriterc files are tried as YAML first, then HCL.
func Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	if p := GetParser(filename); p != nil {
		cfg, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	} else if filepath.Base(filename) == ".rewriterc" {
		cfg, err = (&YAMLParser{}).Parse(ctx, data)
		if err != nil {
			var hclErr error
			cfg, hclErr = (&HCLParser{}).Parse(ctx, data)
			if hclErr != nil {
				return nil, errors.Errorf("failed to parse .rewriterc as YAML or HCL: %w", errors.Join(err, hclErr))
			}
		}
	} else {
		return nil, errors.Errorf("no parser found for file: %s", filename)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills defaults
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 && len(cfg.Presets) == 0 {
		return errors.Errorf("at least one rule or preset is required")
	}

	for i, r := range cfg.Rules {
		if r.Pattern == "" {
			return errors.Errorf("rules[%d]: pattern is required", i)
		}
		for _, glob := range r.Files {
			if !doublestar.ValidatePattern(glob) {
				return errors.Errorf("rules[%d]: invalid file glob %q", i, glob)
			}
		}
	}

	for i, name := range cfg.Presets {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("presets[%d]: name is required", i)
		}
	}

	for _, glob := range cfg.Globs {
		if !doublestar.ValidatePattern(filepath.ToSlash(glob)) {
			return errors.Errorf("invalid glob %q", glob)
		}
	}

	if cfg.Options.MaxPasses < 0 {
		return errors.Errorf("options.max_passes must not be negative")
	}

	cfg.matchTimeout = 0
	if cfg.Options.MatchTimeout != "" {
		d, err := time.ParseDuration(cfg.Options.MatchTimeout)
		if err != nil {
			return errors.Errorf("options.match_timeout: %w", err)
		}
		if d <= 0 {
			return errors.Errorf("options.match_timeout must be positive")
		}
		cfg.matchTimeout = d
	}

	if cfg.BaseDir != "" {
		cfg.BaseDir = filepath.Clean(cfg.BaseDir)
	}

	return nil
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// MatchTimeout returns the parsed options.match_timeout, zero when unset
func (cfg *Config) MatchTimeout() time.Duration {
	return cfg.matchTimeout
}

// TextRules converts the configured rules for the rule chain
func (cfg *Config) TextRules() []text.Rule {
	out := make([]text.Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		out = append(out, text.Rule{
			Name:    r.Name,
			Pattern: r.Pattern,
			Replace: r.Replace,
			Literal: r.Literal,
			Files:   r.Files,
		})
	}
	return out
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d rules, %d presets, %d files, %d globs -> %s",
		len(cfg.Rules), len(cfg.Presets), len(cfg.Files), len(cfg.Globs), cfg.BaseDir)
}
