// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/consensys/go-fractran/pkg/fractran/experiment"
	"github.com/consensys/go-fractran/pkg/fractran/factor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// NewRootCommand creates the root command for the fractran tool, along with
// all of its subcommands.  Flag defaults are taken from the environment where
// set.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fractran",
		Short:         "A compiler and interpreter for FRACTRAN programs.",
		Long:          "A compiler (and general toolbox) for FRACTRAN programs written as arithmetic expressions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure log level
			if GetFlag(cmd, "verbose") {
				log.SetLevel(log.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			if GetFlag(cmd, "version") {
				fmt.Fprintf(cmd.OutOrStdout(), "fractran %s\n", version())
			} else {
				_ = cmd.Help()
			}
		},
	}
	//
	cmd.Flags().Bool("version", false, "print version information")
	cmd.PersistentFlags().BoolP("verbose", "v", env.Bool("FRACTRAN_VERBOSE"), "increase logging verbosity")
	cmd.PersistentFlags().Uint64("sieve-limit", envUint("FRACTRAN_SIEVE_LIMIT", factor.DEFAULT_SIEVE_LIMIT),
		"upper bound on literals (and hence primes) in a program")
	// Add subcommands
	cmd.AddCommand(newCompileCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newReplCommand())
	//
	return cmd
}

// maxStepsFlag adds the step limit flag shared by several commands.
func maxStepsFlag(cmd *cobra.Command) {
	cmd.Flags().Uint("max-steps", uint(envUint("FRACTRAN_MAX_STEPS", uint64(experiment.DEFAULT_MAX_STEPS))),
		"maximum number of steps to execute (0 for unbounded)")
}

// Execute runs the root command against the process arguments, exiting with the
// appropriate code.  This is called by main.main().
func Execute() {
	var exitErr *ExitError
	//
	if err := NewRootCommand().Execute(); errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	} else if err != nil {
		log.Error(err)
		os.Exit(EXIT_USAGE)
	}
}

func version() string {
	if Version != "" {
		// Built via "make"
		return Version
	} else if info, ok := debug.ReadBuildInfo(); ok {
		// Built via "go install"
		return info.Main.Version
	}
	// Unknown, perhaps "go run"
	return "(unknown version)"
}
