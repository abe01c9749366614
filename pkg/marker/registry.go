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
	"sort"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 🗂️ Registry holds the registered markers and the matches recorded for them.
// It is shared by every file processed in a run. Writes for distinct files
// never collide; two concurrent scans of the same file are last-writer-wins.
type Registry struct {
	mu    sync.RWMutex
	order []string
	rules map[string]*Rule
	files map[string]map[string][]MatchRecord
}

// 🏭 NewRegistry creates a registry and registers defs in order
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		rules: make(map[string]*Rule),
		files: make(map[string]map[string][]MatchRecord),
	}
	if err := r.RegisterAll(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// 📝 Register compiles def and stores it under def.Tag.
// Registering an existing tag replaces its rule, keeps its position and
// drops every match recorded for it.
func (r *Registry) Register(def Definition) error {
	rule, err := compileRule(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.Tag]; !exists {
		r.order = append(r.order, rule.Tag)
	}
	r.rules[rule.Tag] = rule
	r.files[rule.Tag] = make(map[string][]MatchRecord)
	return nil
}

// 📝 Add registers a marker from positional arguments
func (r *Registry) Add(tag, pattern string, replace Replacement, opts map[string]any) error {
	return r.Register(Definition{Tag: tag, Pattern: pattern, Replace: replace, Options: opts})
}

// 📚 RegisterAll registers defs in order and stops at the first failure.
// Definitions registered before the failure stay registered.
func (r *Registry) RegisterAll(defs []Definition) error {
	for i, def := range defs {
		if err := r.Register(def); err != nil {
			return errors.Errorf("registering marker %d: %w", i, err)
		}
	}
	return nil
}

// 🏷️ Tags returns the registered tags in registration order
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, len(r.order))
	copy(tags, r.order)
	return tags
}

// 🔍 Rule returns a copy of the rule registered under tag
func (r *Registry) Rule(tag string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[tag]
	if !ok {
		return Rule{}, &UnknownTagError{Tag: tag}
	}
	return *rule, nil
}

// 📂 FilesMatched returns the sorted paths that hold at least one match for tag
func (r *Registry) FilesMatched(tag string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rules[tag]; !ok {
		return nil, &UnknownTagError{Tag: tag}
	}

	files := make([]string, 0, len(r.files[tag]))
	for path, records := range r.files[tag] {
		if len(records) > 0 {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// 📍 Matches returns a copy of the matches recorded for tag in path.
// A known tag with nothing recorded yields an empty slice.
func (r *Registry) Matches(tag, path string) ([]MatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rules[tag]; !ok {
		return nil, &UnknownTagError{Tag: tag}
	}

	records := r.files[tag][path]
	out := make([]MatchRecord, len(records))
	for i, rec := range records {
		groups := make([]Group, len(rec.Groups))
		copy(groups, rec.Groups)
		out[i] = MatchRecord{Match: rec.Match, Groups: groups}
	}
	return out, nil
}

// rulesInOrder snapshots the current rules in registration order
func (r *Registry) rulesInOrder() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]*Rule, 0, len(r.order))
	for _, tag := range r.order {
		rules = append(rules, r.rules[tag])
	}
	return rules
}

// record replaces the matches for (rule, path). Records for a rule that has
// since been redefined are dropped.
func (r *Registry) record(rule *Rule, path string, records []MatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rules[rule.Tag] != rule {
		return
	}
	r.files[rule.Tag][path] = records
}
