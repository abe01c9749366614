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
	"bytes"
	"context"
	"io"

	"gitlab.com/tozd/go/errors"
)

// 📄 File is a document flowing through the pipeline. Exactly one of
// Contents or Stream carries its content; a file with neither is null and
// passes through the stages untouched.
type File struct {
	Cwd  string
	Base string
	Path string

	Contents []byte
	Stream   io.Reader
}

// IsBuffer reports whether the content is held in memory
func (f *File) IsBuffer() bool { return f.Contents != nil && f.Stream == nil }

// IsStream reports whether the content is a chunked reader
func (f *File) IsStream() bool { return f.Stream != nil && f.Contents == nil }

// IsNull reports whether the file carries no content
func (f *File) IsNull() bool { return f.Contents == nil && f.Stream == nil }

// Info returns the identity metadata of f
func (f *File) Info() FileInfo {
	return FileInfo{Cwd: f.Cwd, Base: f.Base, Path: f.Path}
}

// ⚙️ Options configures a pipeline stage
type Options struct {
	// Debug is called with every document before it is processed
	Debug DebugFunc
}

// 🔀 Transform processes one file and returns it with its content replaced
type Transform func(ctx context.Context, file *File) (*File, error)

// 🔎 FindMarkers returns a stage that records markers into r and leaves content unchanged
func (r *Registry) FindMarkers(opts Options) Transform {
	return stage(NewFinder(r), opts)
}

// ✏️ ReplaceMarkers returns a stage that rewrites markers registered in r
func (r *Registry) ReplaceMarkers(opts Options) Transform {
	return stage(NewReplacer(r), opts)
}

func stage(phase Phase, opts Options) Transform {
	return func(ctx context.Context, file *File) (*File, error) {
		switch {
		case file.IsNull():
			return file, nil
		case file.IsBuffer():
			agg := NewAggregator(phase, file.Info(), opts.Debug)
			if _, err := agg.Write(file.Contents); err != nil {
				return nil, errors.Errorf("buffering %s: %w", file.Path, err)
			}
			out, err := agg.Flush(ctx)
			if err != nil {
				return nil, errors.Errorf("processing %s: %w", file.Path, err)
			}
			next := *file
			next.Contents = out
			return &next, nil
		case file.IsStream():
			next := *file
			next.Stream = &aggregateReader{
				ctx: ctx,
				src: file.Stream,
				agg: NewAggregator(phase, file.Info(), opts.Debug),
			}
			return &next, nil
		default:
			return nil, &UnsupportedInputError{Path: file.Path, Reason: "file has both contents and stream"}
		}
	}
}

// 🌊 aggregateReader drains its source into an aggregator on the first Read
// and then serves the single flushed chunk.
type aggregateReader struct {
	ctx context.Context
	src io.Reader
	agg *Aggregator

	out *bytes.Reader
	err error
}

func (r *aggregateReader) Read(p []byte) (int, error) {
	if r.out == nil && r.err == nil {
		r.fill()
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.out.Read(p)
}

func (r *aggregateReader) fill() {
	if _, err := io.Copy(r.agg, r.src); err != nil {
		r.err = errors.Errorf("reading %s: %w", r.agg.file.Path, err)
		return
	}
	out, err := r.agg.Flush(r.ctx)
	if err != nil {
		r.err = errors.Errorf("processing %s: %w", r.agg.file.Path, err)
		return
	}
	r.out = bytes.NewReader(out)
}

// Close closes the source when it is closable
func (r *aggregateReader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
