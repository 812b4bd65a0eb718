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
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-fractran/pkg/fractran/compiler"
	log "github.com/sirupsen/logrus"
)

// DEFAULT_SIEVE_LIMIT is the default upper bound on the sieve.  The sieve
// needs one bit per integer up to the largest literal of a program, hence 2^28
// corresponds to a 32MB bitmap.
const DEFAULT_SIEVE_LIMIT uint64 = 1 << 28

// Registry is the ordered sequence of all primes up to some bound, where the
// position of a prime in this sequence is the index of its register.  Thus,
// register 0 holds the exponent of 2, register 1 that of 3, and so on.  A
// registry is built once per compilation, and shared by all fractions of a
// program, so the same prime maps to the same register throughout.
type Registry struct {
	bound  uint64
	primes []uint64
}

// Sieve constructs the registry of all primes less than or equal to a given
// bound, using the sieve of Eratosthenes.
func Sieve(bound uint64) *Registry {
	var (
		composite = bitset.New(uint(bound) + 1)
		primes    []uint64
	)
	//
	for i, ok := composite.NextClear(2); ok && uint64(i) <= bound; i, ok = composite.NextClear(i + 1) {
		primes = append(primes, uint64(i))
		// Strike out multiples, starting from i*i (which cannot overflow since
		// i <= bound/i is checked first).
		if uint64(i) <= bound/uint64(i) {
			for j := i * i; uint64(j) <= bound; j += i {
				composite.Set(j)
			}
		}
	}
	//
	return &Registry{bound, primes}
}

// SieveFor constructs the registry needed to factorise every literal of the
// given fractions.  That is, all primes up to one more than the largest
// literal.  This fails if that exceeds the given limit.
func SieveFor(fractions []compiler.RawFraction, limit uint64) (*Registry, error) {
	var largest = uint64(1)
	//
	for _, f := range fractions {
		largest = max(largest, f.Max())
	}
	//
	if largest >= limit {
		msg := fmt.Sprintf("literal %d exceeds sieve limit %d", largest, limit)
		return nil, compiler.NewError(nil, compiler.ErrFactorizationOverflow, msg)
	}
	//
	registry := Sieve(largest + 1)
	//
	log.Debugf("sieved %d primes up to %d", registry.Len(), registry.Bound())
	//
	return registry, nil
}

// Bound returns the largest integer covered by this registry.
func (p *Registry) Bound() uint64 {
	return p.bound
}

// Len returns the number of primes in this registry.
func (p *Registry) Len() uint {
	return uint(len(p.primes))
}

// Prime returns the prime held in a given register.
func (p *Registry) Prime(register uint) uint64 {
	return p.primes[register]
}

// Primes returns the primes held by the first n registers.
func (p *Registry) Primes(n uint) []uint64 {
	return slices.Clone(p.primes[:n])
}

// Register determines the register index of a given prime, which is the number
// of primes strictly less than it.  This fails if the given number is not a
// prime within this registry.
func (p *Registry) Register(prime uint64) (uint, bool) {
	index, ok := slices.BinarySearch(p.primes, prime)
	//
	return uint(index), ok
}

// Factor is a single prime power within a factorisation, identified by the
// register of its prime.
type Factor struct {
	Register uint
	Exponent uint
}

// Factorise a positive integer into its prime powers, in ascending order of
// prime.  This fails if the integer has a prime factor beyond the bound of this
// registry.
func (p *Registry) Factorise(n uint64) ([]Factor, error) {
	var factors []Factor
	//
	if n == 0 {
		return nil, compiler.NewError(nil, compiler.ErrFactorizationOverflow, "cannot factorise zero")
	}
	//
	for i, prime := range p.primes {
		if prime > n/prime {
			break
		}
		//
		var count uint
		//
		for n%prime == 0 {
			n /= prime
			count++
		}
		//
		if count > 0 {
			factors = append(factors, Factor{uint(i), count})
		}
	}
	// Whatever remains must be a prime in its own right.
	if n > 1 {
		reg, ok := p.Register(n)
		if !ok {
			msg := fmt.Sprintf("prime factor %d beyond sieve bound %d", n, p.bound)
			return nil, compiler.NewError(nil, compiler.ErrFactorizationOverflow, msg)
		}
		//
		factors = append(factors, Factor{reg, 1})
	}
	//
	return factors, nil
}
