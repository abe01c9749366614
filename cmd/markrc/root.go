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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/markrc/cmd/markrc/opts"
	"github.com/walteh/markrc/pkg/config"
	"github.com/walteh/markrc/pkg/log"
	"github.com/walteh/markrc/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debugMode  bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "markrc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() zerolog.Logger {
	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// loadRootOpts reads the config file and builds the marker registry
func loadRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}

	ro := &opts.RootOpts{
		Config:   cfg,
		Registry: reg,
		Console:  log.New(os.Stdout, level),
	}
	if debugMode {
		ro.Debug = debugHook(*zerolog.Ctx(ctx))
	}
	return ro, nil
}

// debugHook logs every document right before a phase processes it
func debugHook(logger zerolog.Logger) marker.DebugFunc {
	return func(phase, path, content string) {
		logger.Debug().
			Str("phase", phase).
			Str("file", path).
			Int("bytes", len(content)).
			Msg("processing document")
		logger.Trace().Str("file", path).Msg(content)
	}
}
