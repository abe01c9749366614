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

package operation

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_List(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "all_files",
			include: []string{"**/*"},
			want:    []string{"index.html", "js/app.js", "js/vendor/lib.min.js", "pages/about.html"},
		},
		{
			name:    "html_only",
			include: []string{"**/*.html"},
			want:    []string{"index.html", "pages/about.html"},
		},
		{
			name:    "exclude_vendor",
			include: []string{"**/*.js"},
			exclude: []string{"**/vendor/**"},
			want:    []string{"js/app.js"},
		},
		{
			name:    "overlapping_includes_deduplicated",
			include: []string{"**/*.html", "index.*"},
			want:    []string{"index.html", "pages/about.html"},
		},
		{
			name:    "nothing_matches",
			include: []string{"**/*.css"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := t.TempDir()
			writeTree(t, root, map[string]string{
				"index.html":           "",
				"pages/about.html":     "",
				"js/app.js":            "",
				"js/vendor/lib.min.js": "",
			})

			src := &Source{Root: root, Include: tt.include, Exclude: tt.exclude}
			got, err := src.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_BadPattern(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": ""})

	_, err := (&Source{Root: root, Include: []string{"**/*"}, Exclude: []string{"["}}).List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching exclude")
}

func TestSource_Open(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"pages/a.html": "hello", "empty.txt": ""})

	t.Run("buffer_mode", func(t *testing.T) {
		file, closer, err := (&Source{Root: root}).Open(ctx, "pages/a.html")
		require.NoError(t, err)
		defer closer.Close()

		assert.True(t, file.IsBuffer())
		assert.Equal(t, "hello", string(file.Contents))
		assert.Equal(t, root, file.Cwd)
		assert.Equal(t, root, file.Base)
		assert.Equal(t, filepath.Join(root, "pages", "a.html"), file.Path)
	})

	t.Run("empty_file_is_not_null", func(t *testing.T) {
		file, closer, err := (&Source{Root: root}).Open(ctx, "empty.txt")
		require.NoError(t, err)
		defer closer.Close()

		assert.True(t, file.IsBuffer())
		assert.False(t, file.IsNull())
	})

	t.Run("stream_mode", func(t *testing.T) {
		file, closer, err := (&Source{Root: root, Stream: true}).Open(ctx, "pages/a.html")
		require.NoError(t, err)
		defer closer.Close()

		require.True(t, file.IsStream())
		data, err := io.ReadAll(file.Stream)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("missing_file", func(t *testing.T) {
		_, _, err := (&Source{Root: root}).Open(ctx, "missing.html")
		require.Error(t, err)
	})
}
