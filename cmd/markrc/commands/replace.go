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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/markrc/cmd/markrc/opts"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/operation"
	"github.com/walteh/markrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(load opts.Loader) *cobra.Command {
	var (
		destination string
		jobs        int
		async       bool
	)

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Rewrite every marker and write the result",
		Long: `Replace runs find and then replace over every configured file.
It will:
1. Select files with the include and exclude globs
2. Record the markers of each file
3. Rewrite them in registration order
4. Write changed files under the destination directory

A file whose replacement fails is not written and fails the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "replace").Logger().WithContext(ctx)

			ro, err := load(ctx)
			if err != nil {
				return err
			}
			if destination != "" {
				ro.Config.Destination = destination
			}
			if cmd.Flags().Changed("jobs") {
				ro.Config.Jobs = jobs
			}
			if ro.Config.Destination == "" {
				return errors.Errorf("destination is required for replace")
			}

			logger := zerolog.Ctx(ctx)
			mgr := status.New(ro.Config.Destination, logger)
			op, err := operation.NewReplaceOperation(operation.Options{
				Source: &operation.Source{
					Root:    ro.Config.Root,
					Include: ro.Config.Include,
					Exclude: ro.Config.Exclude,
					Stream:  ro.Config.Stream,
				},
				Registry: ro.Registry,
				Jobs:     ro.Config.Jobs,
				Output:   mgr,
				Reporter: mgr,
				Console:  ro.Console,
				Debug:    ro.Debug,
			})
			if err != nil {
				return errors.Errorf("creating replace operation: %w", err)
			}

			ro.Console.Header("replacing markers")
			ro.Console.StartRunOperation(ctx, log.RunOperation{
				Command:     "replace",
				Root:        ro.Config.Root,
				Destination: ro.Config.Destination,
			})
			runErr := operation.NewRunner(logger, async).Run(ctx, op)
			ro.Console.EndRunOperation(ctx)
			if runErr != nil {
				return errors.Errorf("replacing markers: %w", runErr)
			}

			counts := mgr.Counts()
			ro.Console.LogNewline()
			ro.Console.Success(fmt.Sprintf("%d new, %d modified, %d unchanged",
				counts[status.StatusNew], counts[status.StatusModified], counts[status.StatusUnchanged]))
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "destination", "", "override the destination directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "number of files processed in parallel")
	cmd.Flags().BoolVar(&async, "async", false, "return as soon as the run is cancelled")

	return cmd
}
