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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/markrc/pkg/marker"
	"github.com/walteh/markrc/pkg/status"
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 writeTree creates files under dir from a path->content map
func writeTree(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// 🧪 siteDefinitions are small markers used by the operation tests
func siteDefinitions() []marker.Definition {
	return []marker.Definition{
		{
			Tag:     "year",
			Pattern: `@year\((\d{4})\)`,
			Replace: marker.Func(func(rc marker.ReplaceContext, match string, groups ...marker.Group) (string, error) {
				return fmt.Sprintf("%s-2025", groups[0]), nil
			}),
		},
		{
			Tag:     "title",
			Pattern: `<!-- title -->`,
			Replace: marker.Template("<title>Site</title>"),
		},
		{
			Tag:     "todo",
			Pattern: `TODO\((\w+)\)`,
		},
	}
}

// 🔧 MockFileWriter is a mock implementation of status.FileWriter
type MockFileWriter struct {
	mock.Mock
}

func (m *MockFileWriter) WriteFile(ctx context.Context, path string, content []byte) (status.FileStatus, error) {
	result := m.Called(ctx, path, content)
	return result.Get(0).(status.FileStatus), result.Error(1)
}

func (m *MockFileWriter) TrackFile(ctx context.Context, path string, info status.FileInfo) {
	m.Called(ctx, path, info)
}
