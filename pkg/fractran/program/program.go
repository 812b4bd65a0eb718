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
package program

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/go-fractran/pkg/fractran/factor"
)

// Rule is a single guarded transition of a FRACTRAN machine.  A rule is enabled
// when every register holds at least the count its guard requires.  Firing it
// subtracts the guard and then adds the delta.  Guard and delta never share a
// register.
type Rule struct {
	Guard factor.Exponents
	Delta factor.Exponents
}

// Enabled determines whether this rule's guard holds in the given state.
// Registers beyond the end of the state are treated as zero.
func (p Rule) Enabled(state []uint64) bool {
	for r, g := range p.Guard {
		if g == 0 {
			continue
		} else if r >= len(state) || state[r] < uint64(g) {
			return false
		}
	}
	//
	return true
}

// Program is an ordered cascade of rules over a fixed number of registers.  A
// program is immutable once synthesised and may be shared by any number of
// interpreters.
type Program struct {
	registers uint
	rules     []Rule
	// Prime labelling each register, used only for display.
	primes []uint64
}

// Synthesize constructs a program from a sequence of factored fractions, one
// rule per fraction in the given order.  The denominator of each fraction
// becomes the guard and the numerator the delta.
func Synthesize(fractions []factor.Fraction, registers uint, registry *factor.Registry) *Program {
	var rules = make([]Rule, len(fractions))
	//
	for i, f := range fractions {
		if !f.Numerator.Disjoint(f.Denominator) {
			panic(fmt.Sprintf("fraction %d not in lowest terms", i))
		} else if f.Registers() > registers {
			panic(fmt.Sprintf("fraction %d references register beyond %d", i, registers))
		}
		//
		rules[i] = Rule{Guard: f.Denominator, Delta: f.Numerator}
	}
	//
	return &Program{registers, rules, registry.Primes(registers)}
}

// Registers returns the number of registers this program operates over.
func (p *Program) Registers() uint {
	return p.registers
}

// Rules returns the rules of this program in firing order.  The returned slice
// should not be modified.
func (p *Program) Rules() []Rule {
	return p.rules
}

// Rule returns the ith rule of this program.
func (p *Program) Rule(i uint) Rule {
	return p.rules[i]
}

// Prime returns the prime labelling a given register.
func (p *Program) Prime(register uint) uint64 {
	return p.primes[register]
}

// Value reconstructs the reduced fraction from which the ith rule was
// synthesised.
func (p *Program) Value(i uint) *big.Rat {
	var (
		rule = p.rules[i]
		num  = p.power(rule.Delta)
		den  = p.power(rule.Guard)
	)
	//
	return new(big.Rat).SetFrac(num, den)
}

func (p *Program) power(exponents factor.Exponents) *big.Int {
	var (
		acc  = big.NewInt(1)
		term big.Int
	)
	//
	for _, r := range exponents.Registers() {
		term.SetUint64(p.primes[r])
		term.Exp(&term, big.NewInt(int64(exponents[r])), nil)
		acc.Mul(acc, &term)
	}
	//
	return acc
}

// String returns a disassembly of this program: the register map followed by
// one line per rule.
func (p *Program) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("registers %d:", p.registers))
	//
	for r := range p.registers {
		builder.WriteString(" ")
		builder.WriteString(p.label(r))
	}
	//
	builder.WriteString("\n")
	//
	for i, rule := range p.rules {
		builder.WriteString(fmt.Sprintf("[%d] %s: %s → %s\n", i, p.Value(uint(i)).RatString(),
			p.labels(rule.Guard), p.labels(rule.Delta)))
	}
	//
	return builder.String()
}

func (p *Program) label(register uint) string {
	return fmt.Sprintf("r%d(%d)", register, p.primes[register])
}

// labels renders the registers of an exponent vector, with "1" standing for
// the empty product.
func (p *Program) labels(exponents factor.Exponents) string {
	var regs = exponents.Registers()
	//
	if len(regs) == 0 {
		return "1"
	}
	//
	items := make([]string, len(regs))
	//
	for i, r := range regs {
		if exponents[r] == 1 {
			items[i] = p.label(r)
		} else {
			items[i] = fmt.Sprintf("%s^%d", p.label(r), exponents[r])
		}
	}
	//
	return strings.Join(items, " ")
}
