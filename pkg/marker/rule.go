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
	"github.com/cloudflare/ahocorasick"
	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// compileOptions gives patterns JavaScript semantics with line-anchored ^ and $.
// lineSemantics extends the anchors and `.` to \r, \u2028 and \u2029; `[^]` crosses lines.
const compileOptions = regexp2.ECMAScript | regexp2.Multiline

// DataKey is the reserved Options key echoed back to callbacks as ReplaceContext.Data
const DataKey = "data"

// 🔄 Replacement is either a Template or a Func
type Replacement interface {
	isReplacement()
}

// 📝 Template is a literal replacement following JavaScript String.replace rules:
// $1 to $99 and $<name> reference groups, $& the match, $` and $' the text
// before and after it, $$ a dollar. $0 and unknown groups stay literal.
type Template string

func (Template) isReplacement() {}

// 🎯 Func computes the replacement for one occurrence.
// groups holds every capture group of the pattern in order, absent ones included.
type Func func(rc ReplaceContext, match string, groups ...Group) (string, error)

func (Func) isReplacement() {}

// 📦 Group is one capture group of an occurrence
type Group struct {
	Value   string
	Matched bool // false when the group did not take part in the match
}

func (g Group) String() string { return g.Value }

// 📍 MatchRecord is one decoded occurrence of a marker
type MatchRecord struct {
	Match  string
	Groups []Group
}

// 📄 FileInfo identifies the document being processed
type FileInfo struct {
	Cwd  string
	Base string
	Path string
}

// 🧭 ReplaceContext is handed to every Func invocation
type ReplaceContext struct {
	Tag  string
	Data any
	File FileInfo
	// Index is the rune offset of the occurrence in the document being rewritten
	Index int
}

// 🔧 Definition describes one marker to register.
// Pattern holds the source text; Regexp may be given instead and wins when set.
type Definition struct {
	Tag      string
	Pattern  string
	Regexp   *regexp2.Regexp
	Replace  Replacement
	Options  map[string]any
	Keywords []string
}

// 📐 Rule is a compiled Definition
type Rule struct {
	Tag      string
	Source   string
	Replace  Replacement
	Options  map[string]any
	Data     any
	Keywords []string

	global    *regexp2.Regexp
	single    *regexp2.Regexp
	template  string // Replace rewritten for regexp2.Replace
	prefilter *ahocorasick.Matcher
}

func compileRule(def Definition) (*Rule, error) {
	source := def.Pattern
	if def.Regexp != nil {
		if source != "" && source != def.Regexp.String() {
			return nil, &InvalidPatternError{Tag: def.Tag, Pattern: source, Err: errors.Errorf("pattern disagrees with regexp %q", def.Regexp.String())}
		}
		source = def.Regexp.String()
	}

	if def.Tag == "" {
		return nil, &InvalidPatternError{Tag: def.Tag, Pattern: source, Err: errors.New("tag is required")}
	}

	compiled := lineSemantics(source)
	global, err := regexp2.Compile(compiled, compileOptions)
	if err != nil {
		return nil, &InvalidPatternError{Tag: def.Tag, Pattern: source, Err: err}
	}
	single, err := regexp2.Compile(compiled, compileOptions)
	if err != nil {
		return nil, &InvalidPatternError{Tag: def.Tag, Pattern: source, Err: err}
	}

	opts := make(map[string]any, len(def.Options))
	for k, v := range def.Options {
		opts[k] = v
	}
	data, ok := opts[DataKey]
	if !ok || data == nil {
		data = map[string]any{}
	}

	rule := &Rule{
		Tag:     def.Tag,
		Source:  source,
		Replace: def.Replace,
		Options: opts,
		Data:    data,
		global:  global,
		single:  single,
	}

	if tmpl, ok := def.Replace.(Template); ok {
		rule.template = substitution(string(tmpl), global)
	}

	for _, kw := range def.Keywords {
		if kw != "" {
			rule.Keywords = append(rule.Keywords, kw)
		}
	}
	if len(rule.Keywords) > 0 {
		rule.prefilter = ahocorasick.NewStringMatcher(rule.Keywords)
	}

	return rule, nil
}

// mayMatch reports whether doc can hold an occurrence according to the keywords
func (r *Rule) mayMatch(doc string) bool {
	if r.prefilter == nil {
		return true
	}
	return r.prefilter.Contains([]byte(doc))
}

// groupsOf converts the capture groups of m, skipping group 0
func groupsOf(m *regexp2.Match) []Group {
	all := m.Groups()
	groups := make([]Group, 0, len(all)-1)
	for _, g := range all[1:] {
		if len(g.Captures) == 0 {
			groups = append(groups, Group{})
			continue
		}
		groups = append(groups, Group{Value: g.String(), Matched: true})
	}
	return groups
}
