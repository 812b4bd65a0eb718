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
package experiment

import (
	"fmt"

	"github.com/consensys/go-fractran/pkg/fractran/machine"
	"github.com/consensys/go-fractran/pkg/fractran/program"
	log "github.com/sirupsen/logrus"
)

// Outcome records the result of executing a single run.
type Outcome struct {
	// Index of the run within its experiment.
	Index uint
	// Run which was executed.
	Run Run
	// State on completion (or at the point execution stopped).
	State []uint64
	// Steps executed.
	Steps uint
	// Halted indicates whether the machine halted within the step bound.
	Halted bool
	// Err records any failure to construct or execute the machine.
	Err error
}

// Passed determines whether the run halted in its expected state.
func (p Outcome) Passed() bool {
	return p.Err == nil && p.Halted && Matches(p.Run.Expect, p.State)
}

// String summarises this outcome for reporting.
func (p Outcome) String() string {
	switch {
	case p.Err != nil:
		return fmt.Sprintf("run %d: %v -> error: %v", p.Index, p.Run.Input, p.Err)
	case !p.Halted:
		return fmt.Sprintf("run %d: %v -> no halt after %d steps", p.Index, p.Run.Input, p.Steps)
	case !Matches(p.Run.Expect, p.State):
		return fmt.Sprintf("run %d: %v -> %v (expected %v)", p.Index, p.Run.Input, p.State, p.Run.Expect)
	default:
		return fmt.Sprintf("run %d: %v -> %v (%d steps)", p.Index, p.Run.Input, p.State, p.Steps)
	}
}

// Matches checks whether an expected prefix agrees with a given state, with
// all registers beyond the prefix being zero.
func Matches(expected []uint64, state []uint64) bool {
	if len(expected) > len(state) {
		// Only trailing zeros may be missing.
		for _, v := range expected[len(state):] {
			if v != 0 {
				return false
			}
		}
		//
		expected = expected[:len(state)]
	}
	//
	for i, v := range state {
		if i < len(expected) && v != expected[i] {
			return false
		} else if i >= len(expected) && v != 0 {
			return false
		}
	}
	//
	return true
}

// Execute all runs against a given program concurrently, with each run using
// its own interpreter and bounded by a given number of steps.  Outcomes are
// returned in the order of the runs.
func Execute(prog *program.Program, runs []Run, steps uint) []Outcome {
	var (
		outcomes = make([]Outcome, len(runs))
		// Construct a communication channel for outcomes.
		ch = make(chan Outcome, len(runs))
	)
	// Dispatch each run
	for i, run := range runs {
		go func(index uint, run Run) {
			ch <- execute(prog, index, run, steps)
		}(uint(i), run)
	}
	// Collect up all the results
	for range runs {
		outcome := <-ch
		outcomes[outcome.Index] = outcome
	}
	//
	return outcomes
}

func execute(prog *program.Program, index uint, run Run, steps uint) Outcome {
	var outcome = Outcome{Index: index, Run: run}
	//
	interpreter, err := machine.New(prog, run.Input)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	//
	outcome.Steps, outcome.Err = interpreter.Execute(steps)
	outcome.State = interpreter.State()
	outcome.Halted = interpreter.Halted()
	//
	log.Debugf("run %d executed %d steps (halted %t)", index, outcome.Steps, outcome.Halted)
	//
	return outcome
}
