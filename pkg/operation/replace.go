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

	"github.com/rs/zerolog"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/marker"
	"github.com/walteh/markrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ✏️ ReplaceOperation scans every file, rewrites its markers and writes the
// result through Output. A file that fails is not written.
type ReplaceOperation struct {
	BaseOperation
}

// 🏭 NewReplaceOperation creates a new replace operation
func NewReplaceOperation(opts Options) (*ReplaceOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	if base.Output == nil {
		return nil, errors.Errorf("output is required")
	}
	return &ReplaceOperation{BaseOperation: base}, nil
}

// 🏃 Execute runs the replace operation
func (op *ReplaceOperation) Execute(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Str("root", op.Source.Root).Msg("replacing markers")
	return op.forEach(ctx, op.processFile)
}

// 📄 processFile runs find then replace over one file and persists it
func (op *ReplaceOperation) processFile(ctx context.Context, rel string) error {
	content, markers, err := op.render(ctx, rel)
	if err != nil {
		op.fail(ctx, rel, markers, err)
		return err
	}

	fileStatus, err := op.Output.WriteFile(ctx, rel, content)
	if err != nil {
		err = errors.Errorf("writing file: %w", err)
		op.fail(ctx, rel, markers, err)
		return err
	}

	op.Output.TrackFile(ctx, rel, status.FileInfo{
		Status:  fileStatus,
		Size:    int64(len(content)),
		Markers: markers,
	})
	op.report(ctx, log.FileOperation{Path: rel, Phase: "replace", Status: fileStatus, Markers: markers})
	return nil
}

// 🔄 render returns the replaced content of rel and its marker count
func (op *ReplaceOperation) render(ctx context.Context, rel string) ([]byte, int, error) {
	file, closer, err := op.load(ctx, rel)
	if err != nil {
		return nil, 0, err
	}
	defer closer.Close()

	replaced, err := op.Registry.ReplaceMarkers(marker.Options{Debug: op.Debug})(ctx, file)
	if err != nil {
		return nil, 0, errors.Errorf("replacing markers: %w", err)
	}

	content, err := contents(replaced)
	if err != nil {
		return nil, op.countMarkers(file.Path), errors.Errorf("replacing markers: %w", err)
	}
	return content, op.countMarkers(file.Path), nil
}

func (op *ReplaceOperation) fail(ctx context.Context, rel string, markers int, err error) {
	op.Output.TrackFile(ctx, rel, status.FileInfo{Status: status.StatusFailed, Markers: markers, Error: err})
	op.report(ctx, log.FileOperation{Path: rel, Phase: "replace", Status: status.StatusFailed, Markers: markers, Err: err})
}
