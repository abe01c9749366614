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
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// line terminators recognized by ^, $ and .
const lineTerminators = "\n\r\u2028\u2029"

var (
	lineStart = `(?:^|(?<=[` + lineTerminators + `]))`
	lineEnd   = `(?:$|(?=[` + lineTerminators + `]))`
	lineChar  = `[^` + lineTerminators + `]`
)

// lineSemantics rewrites the anchors and dots of a pattern so every line
// terminator ends a line, not only "\n". Escapes and character classes are
// copied untouched.
func lineSemantics(source string) string {
	var (
		out     strings.Builder
		inClass bool
	)
	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\':
			out.WriteRune(c)
			if i+1 < len(runes) {
				i++
				out.WriteRune(runes[i])
			}
		case inClass:
			out.WriteRune(c)
			// a ] right after [ or [^ closes the class too, as in [^]
			if c == ']' {
				inClass = false
			}
		case c == '[':
			out.WriteRune(c)
			inClass = true
			if i+1 < len(runes) && runes[i+1] == '^' {
				i++
				out.WriteRune('^')
			}
		case c == '^':
			out.WriteString(lineStart)
		case c == '$':
			out.WriteString(lineEnd)
		case c == '.':
			out.WriteString(lineChar)
		default:
			out.WriteRune(c)
		}
	}
	return out.String()
}

// substitution converts a JavaScript replacement string into the syntax
// understood by regexp2.Replace. $$, $&, $` and $' keep their meaning, $n and
// $nn name an existing group, $<name> a named group. Anything else stays literal.
func substitution(tmpl string, re *regexp2.Regexp) string {
	groups := len(re.GetGroupNumbers()) - 1
	named := false
	for _, name := range re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err != nil {
			named = true
			break
		}
	}

	var out strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 == len(tmpl) {
			if c == '$' {
				out.WriteString("$$")
			} else {
				out.WriteByte(c)
			}
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$' || next == '&' || next == '`' || next == '\'':
			out.WriteByte('$')
			out.WriteByte(next)
			i++
		case isDigit(next):
			n, width := groupRef(tmpl[i+1:], groups)
			if n == 0 {
				out.WriteString("$$")
				continue
			}
			out.WriteString("${" + strconv.Itoa(n) + "}")
			i += width
		case next == '<' && named:
			end := strings.IndexByte(tmpl[i+2:], '>')
			if end < 0 {
				out.WriteString("$$")
				continue
			}
			name := tmpl[i+2 : i+2+end]
			if _, err := strconv.Atoi(name); err != nil && re.GroupNumberFromName(name) >= 0 {
				out.WriteString("${" + name + "}")
			}
			i += 2 + end
		default:
			out.WriteString("$$")
		}
	}
	return out.String()
}

// groupRef reads a one or two digit group reference, preferring two digits
// when that group exists. It returns 0 when no group is referenced.
func groupRef(s string, groups int) (n, width int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if two := int(s[0]-'0')*10 + int(s[1]-'0'); two >= 1 && two <= groups {
			return two, 2
		}
	}
	if one := int(s[0] - '0'); one >= 1 && one <= groups {
		return one, 1
	}
	return 0, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
