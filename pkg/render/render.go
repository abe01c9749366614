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

// Package render turns Go text/template sources into marker replacement callbacks.
package render

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/markrc/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// 📦 Data is what a replacement template is executed against
type Data struct {
	Tag    string
	Match  string
	Index  int
	Groups []string
	Data   any
	File   marker.FileInfo
	Year   int
}

// 📝 Template is a parsed replacement template
type Template struct {
	tag  string
	tmpl *template.Template
	now  func() time.Time
}

// 🏭 Parse compiles text as the replacement template of the marker tag
func Parse(tag, text string) (*Template, error) {
	tmpl, err := template.New(tag).Option("missingkey=zero").Funcs(funcs("")).Parse(text)
	if err != nil {
		return nil, errors.Errorf("parsing template for marker %q: %w", tag, err)
	}
	return &Template{tag: tag, tmpl: tmpl, now: time.Now}, nil
}

// Func returns t as a marker callback
func (t *Template) Func() marker.Func {
	return t.Execute
}

// 🔄 Execute renders one occurrence. Absent groups render as "".
func (t *Template) Execute(rc marker.ReplaceContext, match string, groups ...marker.Group) (string, error) {
	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return "", errors.Errorf("cloning template: %w", err)
	}
	tmpl.Funcs(funcs(rc.File.Cwd))

	values := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Value
	}

	var out strings.Builder
	err = tmpl.Execute(&out, Data{
		Tag:    rc.Tag,
		Match:  match,
		Index:  rc.Index,
		Groups: values,
		Data:   rc.Data,
		File:   rc.File,
		Year:   t.now().Year(),
	})
	if err != nil {
		return "", errors.Errorf("executing template: %w", err)
	}
	return out.String(), nil
}

// funcs are the template helpers; glob resolves against cwd
func funcs(cwd string) template.FuncMap {
	return template.FuncMap{
		"glob": func(pattern string) ([]string, error) {
			return Glob(cwd, pattern)
		},
		"rel": func(base, target string) (string, error) {
			r, err := filepath.Rel(base, target)
			if err != nil {
				return "", errors.Errorf("relative path: %w", err)
			}
			return filepath.ToSlash(r), nil
		},
		"join": func(sep string, elems []string) string {
			return strings.Join(elems, sep)
		},
		"indent": func(prefix, s string) string {
			if s == "" {
				return s
			}
			return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
		},
	}
}

// 🔍 Glob returns the sorted slash-separated paths under cwd matching pattern
func Glob(cwd, pattern string) ([]string, error) {
	if cwd == "" {
		cwd = "."
	}
	matches, err := doublestar.Glob(os.DirFS(cwd), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
