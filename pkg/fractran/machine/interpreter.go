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
package machine

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/consensys/go-fractran/pkg/fractran/program"
)

// ErrInitialStateTooLong is reported when an initial state supplies more
// registers than the program has.
var ErrInitialStateTooLong = errors.New("initial state too long")

// ErrStepOverflow is reported when firing a rule would take a register beyond
// the maximum value of a 64bit counter.
var ErrStepOverflow = errors.New("register overflow")

// Interpreter executes a FRACTRAN program over a vector of registers, where
// register i holds the exponent of the ith prime.  An interpreter is
// single-threaded, though many interpreters can share the same program.
type Interpreter struct {
	program *program.Program
	state   []uint64
	steps   uint
	halted  bool
}

// New constructs an interpreter for a given program and initial state.  The
// initial state is zero-padded up to the number of registers in the program.
func New(prog *program.Program, initial []uint64) (*Interpreter, error) {
	if uint(len(initial)) > prog.Registers() {
		return nil, fmt.Errorf("%w (%d registers given, %d expected)", ErrInitialStateTooLong, len(initial),
			prog.Registers())
	}
	//
	state := make([]uint64, prog.Registers())
	copy(state, initial)
	//
	return &Interpreter{prog, state, 0, false}, nil
}

// Program returns the program being executed.
func (p *Interpreter) Program() *program.Program {
	return p.program
}

// State returns a copy of the current register values.
func (p *Interpreter) State() []uint64 {
	return slices.Clone(p.state)
}

// Register returns the current value of a given register.
func (p *Interpreter) Register(register uint) uint64 {
	return p.state[register]
}

// Steps returns the number of rules fired so far.
func (p *Interpreter) Steps() uint {
	return p.steps
}

// Halted indicates whether a step has been attempted which found no enabled
// rule.
func (p *Interpreter) Halted() bool {
	return p.halted
}

// Step fires the first enabled rule, returning false when no rule is enabled.
// If firing the rule would overflow a register, an error is returned and the
// state is left unchanged.
func (p *Interpreter) Step() (bool, error) {
	for i, rule := range p.program.Rules() {
		if !rule.Enabled(p.state) {
			continue
		}
		// Check for overflow before anything is modified.  Since guard and
		// delta are disjoint, subtracting the guard cannot help.
		for _, r := range rule.Delta.Registers() {
			if p.state[r] > math.MaxUint64-uint64(rule.Delta[r]) {
				return false, fmt.Errorf("%w (rule %d, register %d)", ErrStepOverflow, i, r)
			}
		}
		//
		for _, r := range rule.Guard.Registers() {
			p.state[r] -= uint64(rule.Guard[r])
		}
		//
		for _, r := range rule.Delta.Registers() {
			p.state[r] += uint64(rule.Delta[r])
		}
		//
		p.steps++
		//
		return true, nil
	}
	//
	p.halted = true
	//
	return false, nil
}

// Execute the machine for the given number of steps, returning the actual
// number of steps executed and an error (if execution failed).  Fewer steps
// than requested without an error means the machine halted.
func (p *Interpreter) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for nsteps < steps {
		if ok, err := p.Step(); err != nil || !ok {
			return nsteps, err
		}
		//
		nsteps++
	}
	//
	return nsteps, nil
}

// Run the machine until it halts.  There is no guarantee this terminates.
func (p *Interpreter) Run() error {
	_, err := ExecuteAll(p, RUN_CHUNK)
	//
	return err
}

// RunWith runs the machine for at most limit steps, calling the observer after
// each step.  Execution stops early when the machine halts, or when the
// observer returns false.  The number of steps executed is returned.
func (p *Interpreter) RunWith(limit uint, observer func(*Interpreter) bool) (uint, error) {
	var nsteps uint
	//
	for nsteps < limit {
		if ok, err := p.Step(); err != nil || !ok {
			return nsteps, err
		}
		//
		nsteps++
		//
		if !observer(p) {
			break
		}
	}
	//
	return nsteps, nil
}

// Number returns the FRACTRAN number encoded by the current state, that is the
// product of each register's prime raised to the register's value.
func (p *Interpreter) Number() *big.Int {
	var (
		acc       = big.NewInt(1)
		prime, ex big.Int
	)
	//
	for r, v := range p.state {
		if v != 0 {
			prime.SetUint64(p.program.Prime(uint(r)))
			ex.SetUint64(v)
			acc.Mul(acc, prime.Exp(&prime, &ex, nil))
		}
	}
	//
	return acc
}
