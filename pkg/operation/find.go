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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔎 FindOperation records every marker occurrence of the source tree into
// the registry. Files are read but never written.
type FindOperation struct {
	BaseOperation
}

// 🏭 NewFindOperation creates a new find operation
func NewFindOperation(opts Options) (*FindOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &FindOperation{BaseOperation: base}, nil
}

// 🏃 Execute runs the find operation
func (op *FindOperation) Execute(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Str("root", op.Source.Root).Msg("finding markers")
	return op.forEach(ctx, op.processFile)
}

// 📄 processFile scans a single file
func (op *FindOperation) processFile(ctx context.Context, rel string) error {
	file, closer, err := op.load(ctx, rel)
	if err != nil {
		op.report(ctx, log.FileOperation{Path: rel, Phase: "find", Status: status.StatusFailed, Err: err})
		return err
	}
	defer closer.Close()

	// a streamed file is only scanned once drained
	if _, err := contents(file); err != nil {
		err = errors.Errorf("reading: %w", err)
		op.report(ctx, log.FileOperation{Path: rel, Phase: "find", Status: status.StatusFailed, Err: err})
		return err
	}

	op.report(ctx, log.FileOperation{
		Path:    rel,
		Phase:   "find",
		Status:  status.StatusUnchanged,
		Markers: op.countMarkers(file.Path),
	})
	return nil
}

// 📊 Occurrence is the number of matches of one tag in one file
type Occurrence struct {
	Tag   string
	File  string // relative to the source root
	Count int
}

// 📋 Occurrences lists what the last run found, by tag in registration
// order and then by file
func (op *FindOperation) Occurrences() ([]Occurrence, error) {
	root, err := filepath.Abs(op.Source.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	var out []Occurrence
	for _, tag := range op.Registry.Tags() {
		files, err := op.Registry.FilesMatched(tag)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			matches, err := op.Registry.Matches(tag, path)
			if err != nil {
				return nil, err
			}
			out = append(out, Occurrence{Tag: tag, File: relTo(root, path), Count: len(matches)})
		}
	}
	return out, nil
}
