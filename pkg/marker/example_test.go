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

package marker_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/markrc/pkg/marker"
)

func Example() {
	ctx := context.Background()

	reg, err := marker.NewRegistry(
		marker.Definition{
			Tag:     "version",
			Pattern: `@version\(([^)]*)\)`,
			Replace: marker.Template("v$1"),
		},
		marker.Definition{
			Tag:     "shout",
			Pattern: `!(\w+)!`,
			Replace: marker.Func(func(rc marker.ReplaceContext, match string, groups ...marker.Group) (string, error) {
				return strings.ToUpper(groups[0].Value), nil
			}),
		},
	)
	if err != nil {
		panic(err)
	}

	file := &marker.File{Path: "README.md", Contents: []byte("release @version(1.2.0) is !ready!")}

	found, err := reg.FindMarkers(marker.Options{})(ctx, file)
	if err != nil {
		panic(err)
	}
	out, err := reg.ReplaceMarkers(marker.Options{})(ctx, found)
	if err != nil {
		panic(err)
	}

	matches, _ := reg.Matches("version", "README.md")
	fmt.Println(matches[0].Groups[0])
	fmt.Println(string(out.Contents))
	// Output:
	// 1.2.0
	// release v1.2.0 is READY
}
