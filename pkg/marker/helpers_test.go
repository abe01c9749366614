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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// 🧪 readTestdata loads a file from testdata
func readTestdata(t *testing.T, name string) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading testdata %s", name)
	return data
}

// 🧪 fixtureFile wraps the html fixture as a buffered pipeline file
func fixtureFile(t *testing.T) *File {
	return &File{
		Cwd:      "/work",
		Base:     "/work/www",
		Path:     "/work/www/pages/index.html",
		Contents: readTestdata(t, "fixture.html"),
	}
}

// 🧪 fixtureDefinitions are the markers exercised by testdata/fixture.html
func fixtureDefinitions() []Definition {
	return []Definition{
		{
			Tag:     "copyright",
			Pattern: `<!-- insert:copyright:(\d{4}) -->`,
			Replace: Func(func(rc ReplaceContext, match string, groups ...Group) (string, error) {
				year := rc.Data.(map[string]any)["year"]
				return fmt.Sprintf("<!-- Copyright %s-%v -->", groups[0], year), nil
			}),
			Options: map[string]any{DataKey: map[string]any{"year": 2025}},
		},
		{
			Tag:     "css",
			Pattern: `(\n?)([ \t]*)(<!-- @begin:css -->(?:[ \t]*)(?:\n?))([^]*?)((?:\n?)(?:[ \t]*)<!-- @end:css -->)`,
			Replace: Template(`$1$2$3$2<link rel="stylesheet" href="css/combined.css">$5`),
		},
		{
			Tag:     "func-css",
			Pattern: `(\n?)([ \t]*)(<!-- @begin:func-css -->(?:[ \t]*)(?:\n?))([^]*?)((?:\n?)(?:[ \t]*)<!-- @end:func-css -->)`,
			Replace: Func(func(rc ReplaceContext, match string, groups ...Group) (string, error) {
				newline, ws, begin, end := groups[0].Value, groups[1].Value, groups[2].Value, groups[4].Value
				var lines []string
				for _, f := range []string{"dynamic/one.css", "dynamic/two.css"} {
					lines = append(lines, ws+`<link rel="stylesheet" href="`+f+`">`)
				}
				return newline + ws + begin + strings.Join(lines, "\n") + end, nil
			}),
		},
		{
			Tag:     "js-markers",
			Pattern: `^(\s*)\/\/\+\+ ([A-Za-z0-9-]+)(?::(.+))* --\/\/\s*$`,
			Replace: Func(func(rc ReplaceContext, match string, groups ...Group) (string, error) {
				return match + "\n" + groups[0].Value + "'" + groups[1].Value + ".js',", nil
			}),
		},
		{
			Tag:     "js-bracketed",
			Pattern: `(\s*)\/\/\+\+ @begin:([A-Za-z0-9-]+)(?::(\S+))* --\/\/([^]*?)\/\/\+\+ @end:\2 --\/\/`,
			Replace: Func(func(rc ReplaceContext, match string, groups ...Group) (string, error) {
				ws, task, selector := groups[0].Value, groups[1].Value, groups[2]
				if !selector.Matched {
					selector.Value = "."
				}
				re, err := regexp2.Compile(selector.Value, regexp2.ECMAScript)
				if err != nil {
					return "", err
				}
				var out strings.Builder
				for _, f := range []string{"lib.js", "lib.min.js"} {
					if ok, _ := re.MatchString(f); ok {
						out.WriteString(ws + "'" + task + "/" + f + "',")
					}
				}
				return out.String(), nil
			}),
		},
	}
}

// 🧪 chunkReader hands out at most size bytes per Read
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.size
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}
