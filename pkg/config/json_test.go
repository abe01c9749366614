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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestJSONParsing tests JSON config parsing
func TestJSONParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_minimal_json",
			config: `{
				"markers": [
					{"tag": "todo", "re": "TODO"}
				]
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ".", cfg.Root) // default value
				assert.Equal(t, []string{"**/*"}, cfg.Include)
				assert.Equal(t, 1, cfg.Jobs)
				require.Len(t, cfg.Markers, 1)
				assert.Equal(t, "todo", cfg.Markers[0].Tag)
				assert.Nil(t, cfg.Markers[0].Replace)
				assert.Nil(t, cfg.Markers[0].Template)
			},
		},
		{
			name: "valid_full_json",
			config: `{
				"root": "./src/../www",
				"include": ["**/*.html"],
				"exclude": ["**/*.min.html"],
				"destination": "/tmp//dist/",
				"jobs": 8,
				"stream": true,
				"markers": [
					{
						"tag": "css",
						"re": "<!-- @css -->",
						"replace": "<link href=\"a.css\">",
						"keywords": ["@css"]
					},
					{
						"tag": "year",
						"re": "@year",
						"template": "{{ .Year }}",
						"data": {"n": 1, "nested": {"k": "v"}}
					}
				]
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "www", cfg.Root)
				assert.Equal(t, []string{"**/*.html"}, cfg.Include)
				assert.Equal(t, []string{"**/*.min.html"}, cfg.Exclude)
				assert.Equal(t, "/tmp/dist", cfg.Destination)
				assert.Equal(t, 8, cfg.Jobs)
				assert.True(t, cfg.Stream)
				require.Len(t, cfg.Markers, 2)
				require.NotNil(t, cfg.Markers[0].Replace)
				assert.Equal(t, `<link href="a.css">`, *cfg.Markers[0].Replace)
				assert.Equal(t, []string{"@css"}, cfg.Markers[0].Keywords)
				require.NotNil(t, cfg.Markers[1].Template)
				assert.Equal(t, "{{ .Year }}", *cfg.Markers[1].Template)
				assert.Equal(t, map[string]any{"n": float64(1), "nested": map[string]any{"k": "v"}}, cfg.Markers[1].Data)
			},
		},
		{
			name: "invalid_json_syntax",
			config: `{
				"markers": [
					{"tag": "todo", "re": "TODO"},
				]
			}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_field",
			config:      `{"markers": [{"tag": "a", "re": "x"}], "provider": {}}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "empty_json",
			config:      "{}",
			wantErr:     true,
			errContains: "at least one marker is required",
		},
	}

	parser := &JSONParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// 🧪 TestJSONParserSelection tests JSON parser file detection
func TestJSONParserSelection(t *testing.T) {
	parser := &JSONParser{}

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{
			name:     "json_extension",
			filename: "markrc.json",
			want:     true,
		},
		{
			name:     "uppercase_extension",
			filename: "markrc.JSON",
			want:     true,
		},
		{
			name:     "yaml_extension",
			filename: "markrc.yaml",
			want:     false,
		},
		{
			name:     "no_extension",
			filename: "markrc",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.CanParse(tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}
