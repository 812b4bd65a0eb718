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
package factor

import (
	"github.com/consensys/go-fractran/pkg/fractran/compiler"
	log "github.com/sirupsen/logrus"
)

// Fraction is a fraction whose numerator and denominator have been factorised
// into register exponents, with common factors cancelled.  Hence, no register
// has a non-zero exponent in both.
type Fraction struct {
	Numerator   Exponents
	Denominator Exponents
}

// Registers returns one more than the highest register this fraction uses, or
// 0 if it uses none (i.e. it is equal to 1).
func (p Fraction) Registers() uint {
	return max(p.Numerator.Len(), p.Denominator.Len())
}

// Allocate factorises every raw fraction against this registry, returning the
// factored fractions (in the same order) and the number of registers required
// to run them.  Each distinct literal is factorised exactly once, regardless
// of how many times it appears across the program.
func (p *Registry) Allocate(raws []compiler.RawFraction) ([]Fraction, uint, error) {
	var (
		fractions = make([]Fraction, len(raws))
		cache     = make(map[uint64][]Factor)
		registers uint
	)
	//
	for i, raw := range raws {
		numerator, err := p.accumulate(raw.Numerator, cache)
		if err != nil {
			return nil, 0, err
		}
		//
		denominator, err := p.accumulate(raw.Denominator, cache)
		if err != nil {
			return nil, 0, err
		}
		//
		fractions[i] = cancel(numerator, denominator)
		registers = max(registers, fractions[i].Registers())
	}
	//
	log.Debugf("allocated %d registers for %d fractions (%d distinct literals)", registers, len(raws), len(cache))
	//
	return fractions, registers, nil
}

// Sum the exponents of all literals in a given factor list.
func (p *Registry) accumulate(literals []uint64, cache map[uint64][]Factor) (Exponents, error) {
	var exponents Exponents
	//
	for _, n := range literals {
		factors, ok := cache[n]
		//
		if !ok {
			var err error
			//
			if factors, err = p.Factorise(n); err != nil {
				return nil, err
			}
			//
			cache[n] = factors
		}
		//
		for _, f := range factors {
			exponents.add(f.Register, f.Exponent)
		}
	}
	//
	return exponents, nil
}

// Cancel the common factors of a numerator and denominator.
func cancel(numerator Exponents, denominator Exponents) Fraction {
	for i := range min(len(numerator), len(denominator)) {
		m := min(numerator[i], denominator[i])
		numerator[i] -= m
		denominator[i] -= m
	}
	//
	numerator.trim()
	denominator.trim()
	//
	return Fraction{numerator, denominator}
}
