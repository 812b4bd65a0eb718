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

	"github.com/consensys/go-fractran/pkg/fractran/machine"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] file.frac",
		Short: "run a FRACTRAN program from a given initial state.",
		Long: `Compile and run a FRACTRAN program from a given initial state, printing the
final state once the program halts.  The state is given as a comma-separated
list of register values, where register i holds the exponent of the ith prime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(runRunCmd(cmd, args))
		},
	}
	//
	cmd.Flags().StringP("input", "i", "", "initial state (e.g. \"12,34\")")
	cmd.Flags().Int("watch", -1, "print the state after each step where the given register is nonzero")
	cmd.Flags().Bool("number", false, "also print the final state as a FRACTRAN number")
	maxStepsFlag(cmd)
	//
	return cmd
}

func runRunCmd(cmd *cobra.Command, args []string) int {
	var (
		stdout = NewOutput(cmd.OutOrStdout())
		stderr = NewOutput(cmd.ErrOrStderr())
		limit  = GetUint(cmd, "max-steps")
		watch  = GetInt(cmd, "watch")
	)
	//
	initial, err := ParseState(GetString(cmd, "input"))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return EXIT_INPUT
	}
	//
	prog, code := compileSourceFile(cmd, args[0])
	if code != EXIT_OK {
		return code
	} else if watch >= int(prog.Registers()) {
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid watch register %d (program has %d registers)\n", watch, prog.Registers())
		return EXIT_INPUT
	}
	//
	interpreter, err := machine.New(prog, initial)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return EXIT_INPUT
	}
	//
	observer := func(m *machine.Interpreter) bool {
		if watch >= 0 && m.Register(uint(watch)) != 0 {
			stdout.Line(fmt.Sprintf("%s: %s", stdout.Count(m.Steps()), FormatState(m.State())))
		}
		//
		return true
	}
	//
	if err = execute(interpreter, limit, watch >= 0, observer); err != nil {
		stderr.Line(err.Error())
		return EXIT_RUNTIME
	}
	//
	stdout.Line(FormatState(interpreter.State()))
	//
	if GetFlag(cmd, "number") {
		stdout.Line(interpreter.Number().String())
	}
	//
	if !interpreter.Halted() {
		stderr.Line(fmt.Sprintf("step limit reached after %s steps", stderr.Count(interpreter.Steps())))
		return EXIT_STEP_LIMIT
	}
	//
	stderr.Line(fmt.Sprintf("halted after %s steps", stderr.Count(interpreter.Steps())))
	//
	return EXIT_OK
}

// execute runs an interpreter for at most limit steps (or until it halts when
// the limit is zero), calling the observer after each step if required.
func execute(m *machine.Interpreter, limit uint, observe bool, observer func(*machine.Interpreter) bool) error {
	switch {
	case limit == 0 && !observe:
		return m.Run()
	case limit == 0:
		for !m.Halted() {
			if _, err := m.RunWith(machine.RUN_CHUNK, observer); err != nil {
				return err
			}
		}
		//
		return nil
	case !observe:
		_, err := m.Execute(limit)
		return err
	default:
		_, err := m.RunWith(limit, observer)
		return err
	}
}
