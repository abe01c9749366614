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

package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/markrc/cmd/markrc/commands"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "markrc",
		Short: "Find and replace comment markers in source trees",
		Long: `markrc scans files for registered markers, records every occurrence
and rewrites them with templates or callbacks. Markers and the files to
process are declared in a YAML, JSON or HCL config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// flags are parsed by cobra; logging is configured once they are known
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewFindCmd(loadRootOpts),
		commands.NewReplaceCmd(loadRootOpts),
		NewVersionCmd(),
	)

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
