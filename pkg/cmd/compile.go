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

	"github.com/spf13/cobra"
)

func newCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] file1.frac file2.frac ...",
		Short: "compile FRACTRAN source files and print their disassembly.",
		Long: `Compile one or more FRACTRAN source files, printing the register map and the
rule cascade of each.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(runCompileCmd(cmd, args))
		},
	}
	//
	cmd.Flags().Bool("quiet", false, "check programs compile without printing them")
	//
	return cmd
}

func runCompileCmd(cmd *cobra.Command, args []string) int {
	var (
		quiet = GetFlag(cmd, "quiet")
		out   = cmd.OutOrStdout()
	)
	//
	for i, filename := range args {
		prog, code := compileSourceFile(cmd, filename)
		if code != EXIT_OK {
			return code
		} else if quiet {
			continue
		}
		//
		if len(args) > 1 {
			if i != 0 {
				fmt.Fprintln(out)
			}
			//
			fmt.Fprintf(out, ";; %s\n", filename)
		}
		//
		fmt.Fprint(out, prog.String())
	}
	//
	return EXIT_OK
}
