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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/marker"
	"github.com/walteh/markrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎯 Operation is one command run over a source tree
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Source selects the files to process
	Source *Source
	// Registry holds the markers and collects find results
	Registry *marker.Registry
	// Jobs bounds how many files are processed at once
	Jobs int
	// Output persists replaced files (replace only)
	Output status.FileWriter
	// Reporter receives progress, may be nil
	Reporter status.StatusReporter
	// Console prints per-file lines, may be nil
	Console *log.Logger
	// Debug is handed to the marker stages
	Debug marker.DebugFunc
}

// 🧱 BaseOperation holds what find and replace share
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation validates opts
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Source == nil {
		return BaseOperation{}, errors.Errorf("source is required")
	}
	if opts.Registry == nil {
		return BaseOperation{}, errors.Errorf("registry is required")
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	return BaseOperation{Options: opts}, nil
}

// 🔄 forEach lists the source and calls fn for every file, at most Jobs at
// a time. The first error cancels the remaining files.
func (op *BaseOperation) forEach(ctx context.Context, fn func(ctx context.Context, rel string) error) error {
	files, err := op.Source.List(ctx)
	if err != nil {
		return errors.Errorf("listing files: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Int("files", len(files)).
		Int("jobs", op.Jobs).
		Msg("processing files")

	if op.Reporter != nil {
		op.Reporter.StartOperation(ctx, len(files))
		defer op.Reporter.FinishOperation(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.Jobs)
	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, rel); err != nil {
				return errors.Errorf("processing %s: %w", rel, err)
			}
			if op.Reporter != nil {
				op.Reporter.Advance(gctx)
			}
			return nil
		})
	}
	return g.Wait()
}

// 📥 load opens rel and runs the find stage over it, returning the content
// the replace stage should see
func (op *BaseOperation) load(ctx context.Context, rel string) (*marker.File, io.Closer, error) {
	file, closer, err := op.Source.Open(ctx, rel)
	if err != nil {
		return nil, nil, err
	}

	found, err := op.Registry.FindMarkers(marker.Options{Debug: op.Debug})(ctx, file)
	if err != nil {
		closer.Close()
		return nil, nil, errors.Errorf("finding markers: %w", err)
	}
	return found, closer, nil
}

// 📖 contents drains the content of file
func contents(file *marker.File) ([]byte, error) {
	if file.IsStream() {
		data, err := io.ReadAll(file.Stream)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return file.Contents, nil
}

// 🔢 countMarkers sums the recorded occurrences of every tag in path
func (op *BaseOperation) countMarkers(path string) int {
	n := 0
	for _, tag := range op.Registry.Tags() {
		matches, err := op.Registry.Matches(tag, path)
		if err != nil {
			continue
		}
		n += len(matches)
	}
	return n
}

// 📝 report prints one file outcome on the console
func (op *BaseOperation) report(ctx context.Context, fo log.FileOperation) {
	if op.Console == nil {
		return
	}
	op.Console.LogFileOperation(ctx, fo)
}

// relTo returns path relative to root with forward slashes
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
