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

// 🔎 Finder is the read-only phase: it records every occurrence of every
// marker in a document and returns the document untouched.
type Finder struct {
	registry *Registry
}

// 🏭 NewFinder creates a finder recording into registry
func NewFinder(registry *Registry) *Finder {
	return &Finder{registry: registry}
}

// Name implements Phase.Name
func (f *Finder) Name() string { return "find" }

// 🔍 Process scans doc for each marker against the original content and
// replaces the recorded matches for (tag, file.Path). Tags without an
// occurrence keep whatever was recorded before.
func (f *Finder) Process(ctx context.Context, doc string, file FileInfo) (string, error) {
	logger := zerolog.Ctx(ctx)

	for _, rule := range f.registry.rulesInOrder() {
		if !rule.mayMatch(doc) {
			logger.Debug().Str("tag", rule.Tag).Str("file", file.Path).Msg("skipping marker, no keyword present")
			continue
		}

		literals, err := findAll(rule.global, doc)
		if err != nil {
			return "", errors.Errorf("scanning %s for marker %q: %w", file.Path, rule.Tag, err)
		}
		if len(literals) == 0 {
			continue
		}

		records := make([]MatchRecord, 0, len(literals))
		for _, lit := range literals {
			rec, err := decode(rule, lit)
			if err != nil {
				return "", errors.Errorf("decoding marker %q in %s: %w", rule.Tag, file.Path, err)
			}
			records = append(records, rec)
		}

		f.registry.record(rule, file.Path, records)
		logger.Debug().Str("tag", rule.Tag).Str("file", file.Path).Int("matches", len(records)).Msg("recorded markers")
	}

	return doc, nil
}

// occurrence is one hit of the global pass
type occurrence struct {
	text  string
	match *regexp2.Match
}

// findAll collects every non-overlapping occurrence left to right
func findAll(re *regexp2.Regexp, doc string) ([]occurrence, error) {
	var found []occurrence
	m, err := re.FindStringMatch(doc)
	for m != nil && err == nil {
		found = append(found, occurrence{text: m.String(), match: m})
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// decode re-runs the single matcher on the isolated occurrence to recover its
// groups. Patterns that depend on surrounding text (lookbehind, ^ mid-line)
// can fail on the isolated literal; the groups of the global pass are kept then.
func decode(rule *Rule, occ occurrence) (MatchRecord, error) {
	m, err := rule.single.FindStringMatch(occ.text)
	if err != nil {
		return MatchRecord{}, err
	}
	if m == nil || m.String() != occ.text {
		return MatchRecord{Match: occ.text, Groups: groupsOf(occ.match)}, nil
	}
	return MatchRecord{Match: occ.text, Groups: groupsOf(m)}, nil
}
