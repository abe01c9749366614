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
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Expressions can reference
// year (the current year) and env (the process environment).
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"year": cty.NumberIntVal(int64(time.Now().Year())),
			"env":  envValue(os.Environ()),
		},
	}

	// Define HCL schema
	type hclMarker struct {
		Tag      string            `hcl:"tag,label"`
		Re       string            `hcl:"re"`
		Replace  *string           `hcl:"replace,optional"`
		Template *string           `hcl:"template,optional"`
		Keywords []string          `hcl:"keywords,optional"`
		Data     map[string]string `hcl:"data,optional"`
	}
	type hclConfig struct {
		Root        string      `hcl:"root,optional"`
		Include     []string    `hcl:"include,optional"`
		Exclude     []string    `hcl:"exclude,optional"`
		Destination string      `hcl:"destination,optional"`
		Jobs        int         `hcl:"jobs,optional"`
		Stream      bool        `hcl:"stream,optional"`
		Markers     []hclMarker `hcl:"marker,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Root:        hclCfg.Root,
		Include:     hclCfg.Include,
		Exclude:     hclCfg.Exclude,
		Destination: hclCfg.Destination,
		Jobs:        hclCfg.Jobs,
		Stream:      hclCfg.Stream,
	}
	for _, m := range hclCfg.Markers {
		mk := Marker{
			Tag:      m.Tag,
			Re:       m.Re,
			Replace:  m.Replace,
			Template: m.Template,
			Keywords: m.Keywords,
		}
		if m.Data != nil {
			mk.Data = make(map[string]any, len(m.Data))
			for k, v := range m.Data {
				mk.Data[k] = v
			}
		}
		cfg.Markers = append(cfg.Markers, mk)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// envValue converts KEY=VALUE pairs into a cty map
func envValue(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vals)
}
