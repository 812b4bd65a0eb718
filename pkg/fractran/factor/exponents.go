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
	"fmt"
	"strings"
)

// Exponents is a dense vector of prime exponents indexed by register.  Entries
// beyond the end of the vector are implicitly zero.
type Exponents []uint

// Get returns the exponent for a given register.
func (p Exponents) Get(register uint) uint {
	if register < uint(len(p)) {
		return p[register]
	}
	//
	return 0
}

// Len returns one past the highest register which has a non-zero exponent, or
// 0 if all exponents are zero.
func (p Exponents) Len() uint {
	for i := len(p); i > 0; i-- {
		if p[i-1] != 0 {
			return uint(i)
		}
	}
	//
	return 0
}

// IsZero checks whether all exponents are zero.
func (p Exponents) IsZero() bool {
	return p.Len() == 0
}

// Registers returns the registers with non-zero exponents, in ascending order.
func (p Exponents) Registers() []uint {
	var regs []uint
	//
	for i, e := range p {
		if e != 0 {
			regs = append(regs, uint(i))
		}
	}
	//
	return regs
}

// Disjoint checks whether no register has a non-zero exponent in both vectors.
func (p Exponents) Disjoint(other Exponents) bool {
	for i := range min(len(p), len(other)) {
		if p[i] != 0 && other[i] != 0 {
			return false
		}
	}
	//
	return true
}

// add a count to a given register, growing the vector as needed.
func (p *Exponents) add(register uint, count uint) {
	for uint(len(*p)) <= register {
		*p = append(*p, 0)
	}
	//
	(*p)[register] += count
}

// trim removes trailing zeros, leaving nil when nothing remains.
func (p *Exponents) trim() {
	if n := p.Len(); n == 0 {
		*p = nil
	} else {
		*p = (*p)[:n]
	}
}

// String renders this vector sparsely, e.g. "{r0:1, r2:3}".
func (p Exponents) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, r := range p.Registers() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("r%d:%d", r, p[r]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
