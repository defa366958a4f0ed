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
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile string
	root       string
	debug      bool
	noColor    bool
}

// newRootCmd builds the command tree. Console lines go to stdout and
// structured logs to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{Fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Apply idempotent text patches to source files",
		Long: `patchrc rewrites source files in place from a declarative list of batches.
Every rule detects whether it was already applied, so running it twice
changes nothing the second time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.noColor {
				color.NoColor = true
				pterm.DisableColor()
			}

			ctx := setupLogging(cmd.Context(), stderr, flags.debug)
			ctx = log.NewContext(ctx, log.New(stdout, *zerolog.Ctx(ctx)))
			cmd.SetContext(ctx)

			rootOpts.ConfigFile = flags.configFile
			rootOpts.Root = flags.root
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: first .patchrc.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().StringVar(&flags.root, "root", "", "override the configured root directory")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
}

// setupLogging puts a run scoped zerolog logger into the context
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	return logger.WithContext(ctx)
}
