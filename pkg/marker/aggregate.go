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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧩 Phase is a whole-document operation run by an Aggregator
type Phase interface {
	Name() string
	Process(ctx context.Context, doc string, file FileInfo) (string, error)
}

// DebugFunc observes each document right before a phase processes it
type DebugFunc func(phase, path, content string)

// 📊 State of an Aggregator
type State int

const (
	StateCollecting State = iota
	StateFlushing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateFlushing:
		return "flushing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// 🧺 Aggregator buffers every chunk of one file and runs its phase once on
// the complete document. Patterns can span any chunk boundary, so nothing is
// matched before the end of input.
type Aggregator struct {
	phase Phase
	file  FileInfo
	debug DebugFunc

	state  State
	chunks [][]byte
}

// 🏭 NewAggregator creates an aggregator running phase for file
func NewAggregator(phase Phase, file FileInfo, debug DebugFunc) *Aggregator {
	return &Aggregator{
		phase: phase,
		file:  file,
		debug: debug,
		state: StateCollecting,
	}
}

// State returns the current state
func (a *Aggregator) State() State { return a.state }

// 📥 Write buffers one chunk. It produces no output.
func (a *Aggregator) Write(chunk []byte) (int, error) {
	if a.state != StateCollecting {
		return 0, ErrAggregatorDone
	}
	a.chunks = append(a.chunks, append([]byte(nil), chunk...))
	return len(chunk), nil
}

// 🚿 Flush ends the input, runs the phase exactly once over the joined
// chunks and returns the single output chunk. The aggregator is done
// afterwards, whether the phase failed or not.
func (a *Aggregator) Flush(ctx context.Context) ([]byte, error) {
	if a.state != StateCollecting {
		return nil, ErrAggregatorDone
	}
	a.state = StateFlushing
	defer func() { a.state = StateDone }()

	doc := string(bytes.Join(a.chunks, nil))
	a.chunks = nil

	zerolog.Ctx(ctx).Debug().
		Str("phase", a.phase.Name()).
		Str("file", a.file.Path).
		Int("bytes", len(doc)).
		Msg("flushing document")

	if a.debug != nil {
		a.debug(a.phase.Name(), a.file.Path, doc)
	}

	out, err := a.phase.Process(ctx, doc, a.file)
	if err != nil {
		return nil, errors.Errorf("%s phase: %w", a.phase.Name(), err)
	}
	return []byte(out), nil
}
