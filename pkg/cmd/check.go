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

	"github.com/consensys/go-fractran/pkg/fractran/experiment"
	"github.com/consensys/go-fractran/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] experiment1.yaml experiment2.yaml ...",
		Short: "check FRACTRAN programs against a set of experiments.",
		Long: `Check FRACTRAN programs against one or more experiment files.  Each experiment
names a program and lists initial states, along with the expected final state
for each.  Runs within an experiment are executed concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(runCheckCmd(cmd, args))
		},
	}
	//
	cmd.Flags().Bool("report", true, "print a summary table of all experiments")
	maxStepsFlag(cmd)
	//
	return cmd
}

// Summary of checking a single experiment file.
type checkSummary struct {
	name   string
	runs   uint
	passed uint
}

func runCheckCmd(cmd *cobra.Command, args []string) int {
	var (
		stdout    = NewOutput(cmd.OutOrStdout())
		summaries = make([]checkSummary, len(args))
		failed    = false
	)
	//
	for i, filename := range args {
		summaries[i] = checkExperiment(cmd, stdout, filename)
		failed = failed || summaries[i].runs == 0 || summaries[i].passed != summaries[i].runs
	}
	//
	if GetFlag(cmd, "report") {
		printCheckSummary(stdout, summaries)
	}
	//
	if failed {
		return EXIT_CHECK
	}
	//
	return EXIT_OK
}

func checkExperiment(cmd *cobra.Command, stdout *Output, filename string) checkSummary {
	var summary = checkSummary{name: filename}
	//
	e, err := experiment.Load(filename)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filename, err)
		return summary
	}
	//
	summary.name = e.Name
	//
	prog, errs, err := e.Compile(compileOptions(cmd)...)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filename, err)
		return summary
	} else if len(errs) > 0 {
		for _, err := range errs {
			printSyntaxError(cmd.ErrOrStderr(), &err)
		}
		//
		return summary
	}
	//
	steps := e.Steps()
	if cmd.Flags().Changed("max-steps") {
		steps = GetUint(cmd, "max-steps")
	}
	//
	outcomes := experiment.Execute(prog, e.Runs, steps)
	summary.runs = uint(len(outcomes))
	//
	for _, outcome := range outcomes {
		if outcome.Passed() {
			summary.passed++
			//
			log.Debugf("%s: %s", e.Name, outcome.String())
		} else {
			stdout.Line(fmt.Sprintf("%s: %s", e.Name, outcome.String()))
		}
	}
	//
	return summary
}

func printCheckSummary(stdout *Output, summaries []checkSummary) {
	var table = termio.NewTablePrinter(4, uint(len(summaries)+1))
	//
	table.SetRow(0, "experiment", "runs", "passed", "status")
	table.SetEscape(0, 0, termio.BoldAnsiEscape())
	//
	for i, s := range summaries {
		var (
			row    = uint(i + 1)
			status = "PASS"
			colour = termio.BoldAnsiEscape().FgColour(termio.TERM_GREEN)
		)
		//
		if s.runs == 0 || s.passed != s.runs {
			status = "FAIL"
			colour = termio.BoldAnsiEscape().FgColour(termio.TERM_RED)
		}
		//
		table.SetRow(row, s.name, stdout.Count(s.runs), stdout.Count(s.passed), status)
		table.SetEscape(3, row, colour)
	}
	//
	table.AnsiEscapes(stdout.Terminal())
	table.Print(stdout.writer)
}
