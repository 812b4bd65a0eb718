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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-fractran/pkg/fractran"
	"github.com/consensys/go-fractran/pkg/fractran/machine"
	"github.com/consensys/go-fractran/pkg/fractran/program"
	"github.com/consensys/go-fractran/pkg/util/termio"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".fractran_history"
	promptMain  = "fractran> "
	promptCont  = "......... "
)

const replHelp = `Enter a program as comma-separated fractions (e.g. "455/33, 11/13, 1/11"),
continuing over several lines by ending each with a comma.  Then:

  :run a,b,...   run the current program from the given initial state
  :show          print the disassembly of the current program
  :load <file>   load a program from a source file
  :help          print this message
  :quit          leave the REPL
`

func newReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "interactively compile and run FRACTRAN programs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(runReplCmd(cmd))
		},
	}
	//
	maxStepsFlag(cmd)
	//
	return cmd
}

func runReplCmd(cmd *cobra.Command) int {
	var (
		session  = NewSession(cmd.OutOrStdout(), GetUint(cmd, "max-steps"), compileOptions(cmd)...)
		home, _  = os.UserHomeDir()
		histPath = filepath.Join(home, historyFile)
		ln       = liner.NewLiner()
	)
	//
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	//
	fmt.Fprintln(cmd.OutOrStdout(), "Type :help for help.")
	//
	for {
		line, ok := readLines(ln)
		if !ok {
			// user pressed Ctrl+D or EOF
			fmt.Fprintln(cmd.OutOrStdout())
			break
		} else if strings.TrimSpace(line) == "" {
			continue
		}
		//
		ln.AppendHistory(strings.ReplaceAll(line, "\n", " "))
		//
		if session.Eval(line) {
			break
		}
	}
	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	//
	return EXIT_OK
}

// readLines reads one or more lines, continuing for as long as each line ends
// with a comma (i.e. the program is evidently incomplete).
func readLines(ln *liner.State) (string, bool) {
	var builder strings.Builder
	//
	for {
		prompt := promptMain
		if builder.Len() > 0 {
			prompt = promptCont
		}
		//
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		} else if err != nil {
			// Ctrl+C aborts the current input; let user start again.
			return "", true
		}
		//
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		//
		builder.WriteString(line)
		//
		if !strings.HasSuffix(strings.TrimSpace(line), ",") {
			return builder.String(), true
		}
	}
}

// Session holds the state of an interactive session, namely the most recently
// compiled program.
type Session struct {
	out      *Output
	writer   io.Writer
	maxSteps uint
	options  []fractran.Option
	program  *program.Program
}

// NewSession constructs a session writing to a given writer, where each run is
// bounded by a given number of steps (or unbounded if zero).
func NewSession(w io.Writer, maxSteps uint, options ...fractran.Option) *Session {
	return &Session{NewOutput(w), w, maxSteps, options, nil}
}

// Program returns the current program of this session (or nil, if none).
func (p *Session) Program() *program.Program {
	return p.program
}

// Eval evaluates a single input, which is either a command or a program.  The
// return value indicates whether the session should end.
func (p *Session) Eval(input string) bool {
	var (
		text   = strings.TrimSpace(input)
		fields = strings.Fields(text)
	)
	//
	if !strings.HasPrefix(text, ":") {
		p.compile("<repl>", text)
		return false
	}
	//
	switch fields[0] {
	case ":help":
		fmt.Fprint(p.writer, replHelp)
	case ":quit", ":exit":
		return true
	case ":show":
		if p.hasProgram() {
			fmt.Fprint(p.writer, p.program.String())
		}
	case ":load":
		if len(fields) != 2 {
			p.fail("usage: :load <file>")
		} else if bytes, err := os.ReadFile(fields[1]); err != nil {
			p.fail(err.Error())
		} else {
			p.compile(fields[1], string(bytes))
		}
	case ":run":
		if p.hasProgram() {
			p.run(strings.TrimSpace(strings.TrimPrefix(text, ":run")))
		}
	default:
		p.fail("unknown command. Type :help for help.")
	}
	//
	return false
}

func (p *Session) compile(name string, text string) {
	prog, errs := fractran.CompileString(name, text, p.options...)
	//
	if len(errs) > 0 {
		for _, err := range errs {
			printSyntaxError(p.writer, &err)
		}
		//
		return
	}
	//
	p.program = prog
	//
	fmt.Fprintf(p.writer, "compiled %d rules over %d registers\n", len(prog.Rules()), prog.Registers())
}

func (p *Session) run(input string) {
	initial, err := ParseState(input)
	if err != nil {
		p.fail(err.Error())
		return
	}
	//
	interpreter, err := machine.New(p.program, initial)
	if err != nil {
		p.fail(err.Error())
		return
	}
	//
	if p.maxSteps == 0 {
		err = interpreter.Run()
	} else {
		_, err = interpreter.Execute(p.maxSteps)
	}
	//
	if err != nil {
		p.fail(err.Error())
		return
	}
	//
	p.out.Line(FormatState(interpreter.State()))
	//
	if interpreter.Halted() {
		p.out.Line(fmt.Sprintf("halted after %s steps", p.out.Count(interpreter.Steps())))
	} else {
		p.fail(fmt.Sprintf("step limit reached after %s steps", p.out.Count(interpreter.Steps())))
	}
}

func (p *Session) hasProgram() bool {
	if p.program == nil {
		p.fail("no program (enter one first)")
	}
	//
	return p.program != nil
}

func (p *Session) fail(msg string) {
	p.out.Line(p.out.Highlight(termio.BoldAnsiEscape().FgColour(termio.TERM_RED), msg))
}
