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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/consensys/go-fractran/pkg/fractran"
	"github.com/consensys/go-fractran/pkg/fractran/program"
	"github.com/consensys/go-fractran/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

// Exit codes used by the various commands.
const (
	// EXIT_OK indicates success.
	EXIT_OK = 0
	// EXIT_USAGE indicates the command line was malformed.
	EXIT_USAGE = 1
	// EXIT_INPUT indicates an initial state or flag value was malformed.
	EXIT_INPUT = 2
	// EXIT_FILE indicates a file could not be read.
	EXIT_FILE = 3
	// EXIT_SYNTAX indicates a program failed to compile.
	EXIT_SYNTAX = 4
	// EXIT_STEP_LIMIT indicates a machine did not halt within its step limit.
	EXIT_STEP_LIMIT = 5
	// EXIT_RUNTIME indicates a machine failed during execution.
	EXIT_RUNTIME = 6
	// EXIT_CHECK indicates one or more experiments failed.
	EXIT_CHECK = 7
)

// ExitError carries the exit code of a failed command back to Execute.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exit converts an exit code into the error returned from a command.
func exit(code int) error {
	if code == EXIT_OK {
		return nil
	}
	//
	return &ExitError{code}
}

// GetFlag gets an expected boolean flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or panics if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// GetUint64 gets an expected 64bit unsigned integer flag, or panics if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// GetInt gets an expected integer flag, or panics if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// envUint reads a non-negative integer from the environment, falling back to
// the default when the variable is absent or negative.
func envUint(name string, def uint64) uint64 {
	if v := env.Int(name, int(def)); v >= 0 {
		return uint64(v)
	}
	//
	log.Warnf("ignoring negative %s", name)
	//
	return def
}

// compileOptions determines the compilation options from the persistent flags.
func compileOptions(cmd *cobra.Command) []fractran.Option {
	return []fractran.Option{fractran.WithSieveLimit(GetUint64(cmd, "sieve-limit"))}
}

// compileSourceFile reads and compiles a given source file, printing any
// errors arising.  On failure, the exit code is returned.
func compileSourceFile(cmd *cobra.Command, filename string) (*program.Program, int) {
	log.Debugf("compiling source file %s", filename)
	//
	prog, errs, err := fractran.CompileFile(filename, compileOptions(cmd)...)
	//
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return nil, EXIT_FILE
	} else if len(errs) > 0 {
		for _, e := range errs {
			printSyntaxError(cmd.ErrOrStderr(), &e)
		}
		//
		return nil, EXIT_SYNTAX
	}
	//
	return prog, EXIT_OK
}

// ParseState parses a comma-separated list of register values, such as
// "12,34".  Whitespace around values is ignored, and the empty string gives
// the empty state.
func ParseState(text string) ([]uint64, error) {
	var state []uint64
	//
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	//
	for i, item := range strings.Split(text, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(item), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid register value %d (%q)", i, strings.TrimSpace(item))
		}
		//
		state = append(state, v)
	}
	//
	return state, nil
}

// FormatState renders a state in the same form accepted by ParseState.
func FormatState(state []uint64) string {
	items := make([]string, len(state))
	//
	for i, v := range state {
		items[i] = strconv.FormatUint(v, 10)
	}
	//
	return strings.Join(items, ",")
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(w io.Writer, err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Fprintf(w, "%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Fprintln(w)
	// Print line
	fmt.Fprintln(w, line.String())
	// Print indent (todo: account for tabs)
	fmt.Fprint(w, strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Fprintln(w, strings.Repeat("^", length))
}
