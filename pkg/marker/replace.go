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

package marker

import (
	"context"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ✏️ Replacer rewrites every occurrence of every marker. Markers run in
// registration order and each one sees the output of the previous one, so a
// later marker can match text an earlier replacement introduced.
type Replacer struct {
	registry *Registry
}

// 🏭 NewReplacer creates a replacer for the markers of registry
func NewReplacer(registry *Registry) *Replacer {
	return &Replacer{registry: registry}
}

// Name implements Phase.Name
func (r *Replacer) Name() string { return "replace" }

// 🔄 Process returns doc with all markers replaced. On error the partial
// result is discarded and "" is returned.
func (r *Replacer) Process(ctx context.Context, doc string, file FileInfo) (string, error) {
	logger := zerolog.Ctx(ctx)

	for _, rule := range r.registry.rulesInOrder() {
		if rule.Replace == nil || !rule.mayMatch(doc) {
			continue
		}

		rc := ReplaceContext{
			Tag:  rule.Tag,
			Data: rule.Data,
			File: file,
		}

		var (
			out string
			err error
		)
		switch repl := rule.Replace.(type) {
		case Template:
			out, err = rule.global.Replace(doc, rule.template, -1, -1)
			if err != nil {
				return "", errors.Errorf("marker %q: applying template: %w", rule.Tag, err)
			}
		case Func:
			out, err = replaceFunc(rule.global, doc, rc, repl)
			if err != nil {
				return "", err
			}
		default:
			return "", errors.Errorf("marker %q: unsupported replacement %T", rule.Tag, repl)
		}

		if out != doc {
			logger.Debug().Str("tag", rule.Tag).Str("file", file.Path).Msg("replaced markers")
		}
		doc = out
	}

	return doc, nil
}

// replaceFunc calls fn for every occurrence. The first callback error stops
// further calls and is returned as a ReplacementCallbackError.
func replaceFunc(re *regexp2.Regexp, doc string, rc ReplaceContext, fn Func) (string, error) {
	var cbErr error
	out, err := re.ReplaceFunc(doc, func(m regexp2.Match) string {
		if cbErr != nil {
			return ""
		}
		at := rc
		at.Index = m.Index
		s, err := fn(at, m.String(), groupsOf(&m)...)
		if err != nil {
			cbErr = err
			return ""
		}
		return s
	}, -1, -1)
	if cbErr != nil {
		return "", &ReplacementCallbackError{Tag: rc.Tag, Path: rc.File.Path, Err: cbErr}
	}
	if err != nil {
		return "", errors.Errorf("marker %q: replacing: %w", rc.Tag, err)
	}
	return out, nil
}
