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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newTestManager(t *testing.T) (context.Context, *Manager, string) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	dir := t.TempDir()
	return logger.WithContext(context.Background()), New(dir, &logger), dir
}

func TestManager_WriteFile(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		path    string
		content string
		want    FileStatus
	}{
		{
			name:    "new_file",
			path:    "index.html",
			content: "hello",
			want:    StatusNew,
		},
		{
			name:    "new_nested_file",
			path:    filepath.Join("pages", "deep", "index.html"),
			content: "hello",
			want:    StatusNew,
		},
		{
			name: "modified_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("old"), 0644))
			},
			path:    "index.html",
			content: "new",
			want:    StatusModified,
		},
		{
			name: "unchanged_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("same"), 0644))
			},
			path:    "index.html",
			content: "same",
			want:    StatusUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, mgr, dir := newTestManager(t)
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			got, err := mgr.WriteFile(ctx, tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			content, err := mgr.ReadFile(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(content))

			entries, err := os.ReadDir(filepath.Dir(filepath.Join(dir, tt.path)))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files should be left behind")
		})
	}
}

func TestManager_WriteFileErrors(t *testing.T) {
	ctx, mgr, dir := newTestManager(t)

	// a file where a parent directory is needed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0644))

	got, err := mgr.WriteFile(ctx, filepath.Join("blocker", "index.html"), []byte("x"))
	require.Error(t, err)
	assert.Equal(t, StatusFailed, got)
}

func TestManager_FileExists(t *testing.T) {
	ctx, mgr, dir := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))

	ok, err := mgr.FileExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mgr.FileExists(ctx, "b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_Tracking(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)

	mgr.TrackFile(ctx, "b.html", FileInfo{Status: StatusModified, Markers: 2})
	mgr.TrackFile(ctx, "a.html", FileInfo{Status: StatusNew, Markers: 1})
	mgr.TrackFile(ctx, "c.html", FileInfo{Status: StatusFailed, Error: errors.New("boom")})
	mgr.TrackFile(ctx, "d.html", FileInfo{Status: StatusNew})

	info, err := mgr.GetFileInfo(ctx, "b.html")
	require.NoError(t, err)
	assert.Equal(t, FileInfo{Path: "b.html", Status: StatusModified, Markers: 2}, info)

	_, err = mgr.GetFileInfo(ctx, "missing.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not tracked")

	files, err := mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 4)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.html", "b.html", "c.html", "d.html"}, paths)

	assert.Equal(t, map[FileStatus]int{StatusNew: 2, StatusModified: 1, StatusFailed: 1}, mgr.Counts())
}

func TestManager_Progress(t *testing.T) {
	ctx, mgr, _ := newTestManager(t)

	mgr.StartOperation(ctx, 3)
	mgr.Advance(ctx)
	mgr.Advance(ctx)

	processed, total := mgr.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 3, total)

	mgr.Advance(ctx)
	mgr.FinishOperation(ctx)

	processed, total = mgr.Progress()
	assert.Equal(t, 3, processed)
	assert.Equal(t, 3, total)
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
