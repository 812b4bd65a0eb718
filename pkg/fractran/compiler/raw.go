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
package compiler

import (
	"fmt"
	"math/bits"
	"strings"
)

// RawFraction represents a fraction as unmultiplied lists of factors, where
// each factor is a positive integer.  Multiplication is deferred until the
// factorisation stage, which avoids overflow and allows factorisation to be
// shared across all fractions of a program.
type RawFraction struct {
	Numerator   []uint64
	Denominator []uint64
}

// Literal constructs the raw fraction n/1.
func Literal(n uint64) RawFraction {
	return RawFraction{[]uint64{n}, []uint64{1}}
}

// Max returns the largest factor in this fraction, or 1 if there are none.
func (p RawFraction) Max() uint64 {
	m := uint64(1)
	//
	for _, n := range p.Numerator {
		m = max(m, n)
	}
	//
	for _, n := range p.Denominator {
		m = max(m, n)
	}
	//
	return m
}

// IsInteger checks whether the denominator consists solely of ones.
func (p RawFraction) IsInteger() bool {
	for _, d := range p.Denominator {
		if d != 1 {
			return false
		}
	}
	//
	return true
}

func (p RawFraction) String() string {
	return fmt.Sprintf("%s/%s", factorsToString(p.Numerator), factorsToString(p.Denominator))
}

func factorsToString(factors []uint64) string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, f := range factors {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", f))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

// product multiplies all factors together, reporting false on overflow.
func product(factors ...[]uint64) (uint64, bool) {
	var acc = uint64(1)
	//
	for _, fs := range factors {
		for _, f := range fs {
			hi, lo := bits.Mul64(acc, f)
			if hi != 0 {
				return 0, false
			}
			//
			acc = lo
		}
	}
	//
	return acc, true
}

// concat creates a fresh slice holding all items of the given slices in order.
// Observe that, unlike append(), this never aliases its arguments.
func concat(lhs []uint64, rhs []uint64) []uint64 {
	nslice := make([]uint64, len(lhs)+len(rhs))
	copy(nslice, lhs)
	copy(nslice[len(lhs):], rhs)
	//
	return nslice
}

// repeat creates a fresh slice holding n back-to-back copies of items.
func repeat(items []uint64, n uint64) []uint64 {
	nslice := make([]uint64, 0, uint64(len(items))*n)
	//
	for range n {
		nslice = append(nslice, items...)
	}
	//
	return nslice
}
