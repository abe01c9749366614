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

package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/markrc/cmd/markrc/opts"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/operation"
	"github.com/walteh/markrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewFindCmd creates a new find command
func NewFindCmd(load opts.Loader) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Report every marker in the source tree",
		Long: `Find scans the configured files and records every marker occurrence.
It will:
1. Select files with the include and exclude globs
2. Match every marker against each file
3. Print a table of tags, files and match counts

Files are never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "find").Logger().WithContext(ctx)

			ro, err := load(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("jobs") {
				ro.Config.Jobs = jobs
			}

			logger := zerolog.Ctx(ctx)
			mgr := status.New(ro.Config.Root, logger)
			op, err := operation.NewFindOperation(operation.Options{
				Source: &operation.Source{
					Root:    ro.Config.Root,
					Include: ro.Config.Include,
					Exclude: ro.Config.Exclude,
					Stream:  ro.Config.Stream,
				},
				Registry: ro.Registry,
				Jobs:     ro.Config.Jobs,
				Reporter: mgr,
				Console:  ro.Console,
				Debug:    ro.Debug,
			})
			if err != nil {
				return errors.Errorf("creating find operation: %w", err)
			}

			ro.Console.Header("finding markers")
			ro.Console.StartRunOperation(ctx, log.RunOperation{Command: "find", Root: ro.Config.Root})
			runErr := operation.NewRunner(logger, false).Run(ctx, op)
			ro.Console.EndRunOperation(ctx)
			if runErr != nil {
				return errors.Errorf("finding markers: %w", runErr)
			}

			occurrences, err := op.Occurrences()
			if err != nil {
				return errors.Errorf("collecting results: %w", err)
			}
			ro.Console.LogNewline()
			return RenderOccurrences(cmd.OutOrStdout(), occurrences)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "number of files processed in parallel")

	return cmd
}

// RenderOccurrences writes the find results as a table
func RenderOccurrences(w io.Writer, occurrences []operation.Occurrence) error {
	if len(occurrences) == 0 {
		_, err := fmt.Fprintln(w, "no markers found")
		return err
	}

	data := pterm.TableData{{"Tag", "File", "Matches"}}
	for _, o := range occurrences {
		data = append(data, []string{o.Tag, o.File, fmt.Sprintf("%d", o.Count)})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
