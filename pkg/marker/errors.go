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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrAggregatorDone is returned when input reaches an aggregator that has already flushed
var ErrAggregatorDone = errors.New("aggregator already flushed")

// 🚫 InvalidPatternError reports a marker pattern that does not compile
type InvalidPatternError struct {
	Tag     string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("marker %q: invalid pattern %q", e.Tag, e.Pattern)
	}
	return fmt.Sprintf("marker %q: invalid pattern %q: %v", e.Tag, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// ❓ UnknownTagError reports a query against a tag that was never registered
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown marker tag %q", e.Tag)
}

// 💥 ReplacementCallbackError wraps a failure raised by a replacement callback.
// The document being rewritten must be discarded when this is returned.
type ReplacementCallbackError struct {
	Tag  string
	Path string
	Err  error
}

func (e *ReplacementCallbackError) Error() string {
	return fmt.Sprintf("marker %q: replacing in %s: %v", e.Tag, e.Path, e.Err)
}

func (e *ReplacementCallbackError) Unwrap() error { return e.Err }

// 🧱 UnsupportedInputError reports a file whose content form cannot be aggregated
type UnsupportedInputError struct {
	Path   string
	Reason string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input %s: %s", e.Path, e.Reason)
}
