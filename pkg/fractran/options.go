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
package fractran

import (
	"github.com/consensys/go-fractran/pkg/fractran/factor"
)

// Config determines how programs are compiled.
type Config struct {
	// SieveLimit bounds the primes available for register allocation.  Any
	// literal at or above this limit cannot be compiled.
	SieveLimit uint64
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{SieveLimit: factor.DEFAULT_SIEVE_LIMIT}
}

// Option modifies the compilation configuration.
type Option func(*Config)

// WithSieveLimit sets the upper bound on the prime sieve.  A limit of zero
// leaves the default in place.
func WithSieveLimit(limit uint64) Option {
	return func(config *Config) {
		if limit != 0 {
			config.SieveLimit = limit
		}
	}
}

func configure(options []Option) Config {
	var config = DefaultConfig()
	//
	for _, opt := range options {
		opt(&config)
	}
	//
	return config
}
