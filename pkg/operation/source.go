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
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/markrc/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// 📂 Source selects the files of a tree with include and exclude globs
type Source struct {
	Root    string   // Directory the globs are relative to
	Include []string // Globs selecting files
	Exclude []string // Globs removing files from the selection
	Stream  bool     // Open files as streams instead of reading them
}

// 🔍 List returns the selected files as sorted slash-separated paths
// relative to Root
func (s *Source) List(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	fsys := os.DirFS(s.Root)

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range s.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching include %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			ignored, err := s.excluded(m)
			if err != nil {
				return nil, err
			}
			if ignored {
				logger.Debug().Str("file", m).Msg("file excluded by pattern")
				continue
			}
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// excluded reports whether path matches any exclude glob
func (s *Source) excluded(path string) (bool, error) {
	for _, pattern := range s.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, errors.Errorf("matching exclude %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// 📄 Open loads rel as a pipeline file. In stream mode the returned file
// holds an open handle which the caller must close through closer.
func (s *Source) Open(ctx context.Context, rel string) (file *marker.File, closer io.Closer, err error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, nil, errors.Errorf("resolving root: %w", err)
	}
	path := filepath.Join(root, filepath.FromSlash(rel))

	file = &marker.File{
		Cwd:  root,
		Base: root,
		Path: path,
	}

	if s.Stream {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Errorf("opening %s: %w", rel, err)
		}
		file.Stream = f
		return file, f, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Errorf("reading %s: %w", rel, err)
	}
	if content == nil {
		content = []byte{}
	}
	file.Contents = content
	return file, io.NopCloser(nil), nil
}
