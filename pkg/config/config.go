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

	"github.com/rs/zerolog"
	"github.com/walteh/markrc/pkg/marker"
	"github.com/walteh/markrc/pkg/render"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
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

// 🏷️ Marker is one marker definition.
// Replace is a regexp substitution template ($1, $&); Template is a Go
// text/template rendered per occurrence. At most one may be set; with
// neither the marker is find-only.
type Marker struct {
	Tag      string         `json:"tag" yaml:"tag"`
	Re       string         `json:"re" yaml:"re"`
	Replace  *string        `json:"replace,omitempty" yaml:"replace,omitempty"`
	Template *string        `json:"template,omitempty" yaml:"template,omitempty"`
	Keywords []string       `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root        string   `json:"root,omitempty" yaml:"root,omitempty"`
	Include     []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty"`
	Jobs        int      `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Stream      bool     `json:"stream,omitempty" yaml:"stream,omitempty"`
	Markers     []Marker `json:"markers" yaml:"markers"`
}

// 🎯 Load loads the configuration from a file. Relative root and
// destination paths are resolved against the directory of the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	dir := filepath.Dir(path)
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	if cfg.Destination != "" && !filepath.IsAbs(cfg.Destination) {
		cfg.Destination = filepath.Join(dir, cfg.Destination)
	}

	logger.Debug().
		Str("root", cfg.Root).
		Int("markers", len(cfg.Markers)).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills defaults
func (cfg *Config) Validate() error {
	if len(cfg.Markers) == 0 {
		return errors.Errorf("at least one marker is required")
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}

	seen := make(map[string]bool, len(cfg.Markers))
	for i, m := range cfg.Markers {
		if m.Tag == "" {
			return errors.Errorf("marker %d: tag is required", i)
		}
		if seen[m.Tag] {
			return errors.Errorf("marker %d: duplicate tag %q", i, m.Tag)
		}
		seen[m.Tag] = true
		if m.Re == "" {
			return errors.Errorf("marker %q: re is required", m.Tag)
		}
		if m.Replace != nil && m.Template != nil {
			return errors.Errorf("marker %q: replace and template are mutually exclusive", m.Tag)
		}
	}

	// Set defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*"}
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	// Clean up paths
	cfg.Root = filepath.Clean(cfg.Root)
	if cfg.Destination != "" {
		cfg.Destination = filepath.Clean(cfg.Destination)
	}

	return nil
}

// 🔄 Definitions converts the markers into registry definitions
func (cfg *Config) Definitions() ([]marker.Definition, error) {
	defs := make([]marker.Definition, 0, len(cfg.Markers))
	for _, m := range cfg.Markers {
		def := marker.Definition{
			Tag:      m.Tag,
			Pattern:  m.Re,
			Keywords: m.Keywords,
		}
		if m.Data != nil {
			def.Options = map[string]any{marker.DataKey: m.Data}
		}

		switch {
		case m.Replace != nil:
			def.Replace = marker.Template(*m.Replace)
		case m.Template != nil:
			tmpl, err := render.Parse(m.Tag, *m.Template)
			if err != nil {
				return nil, err
			}
			def.Replace = tmpl.Func()
		}

		defs = append(defs, def)
	}
	return defs, nil
}

// 🏗️ Registry builds a marker registry from the configuration
func (cfg *Config) Registry() (*marker.Registry, error) {
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, errors.Errorf("building definitions: %w", err)
	}
	reg, err := marker.NewRegistry(defs...)
	if err != nil {
		return nil, errors.Errorf("building registry: %w", err)
	}
	return reg, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	tags := make([]string, len(cfg.Markers))
	for i, m := range cfg.Markers {
		tags[i] = m.Tag
	}
	s := fmt.Sprintf("%s [%s] (%s)", cfg.Root, strings.Join(cfg.Include, ","), strings.Join(tags, ","))
	if cfg.Destination != "" {
		s += " -> " + cfg.Destination
	}
	return s
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
