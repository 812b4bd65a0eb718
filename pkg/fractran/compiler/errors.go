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
	"errors"
	"fmt"

	"github.com/consensys/go-fractran/pkg/fractran/ast"
)

// ErrUnsupportedExpression is reported for any expression outside of integer
// literals, "+", "*", "/" and "^".
var ErrUnsupportedExpression = errors.New("unsupported expression")

// ErrNonIntegerExponent is reported when the right-hand side of "^" does not
// have a denominator consisting solely of ones.
var ErrNonIntegerExponent = errors.New("exponent must be an integer")

// ErrFactorizationOverflow is reported when a literal cannot be factorised
// within the bounds of the prime sieve.
var ErrFactorizationOverflow = errors.New("factorization overflow")

// Error is a compilation failure attributed to a specific node of the
// expression tree.  Its Kind is one of the sentinel errors above, and can be
// tested with errors.Is().
type Error struct {
	// Node responsible for this error (may be nil).
	Node ast.Expr
	// Kind identifies the category of this error.
	Kind error
	// Msg provides additional detail.
	Msg string
}

// NewError constructs a new compilation error for a given node.
func NewError(node ast.Expr, kind error, msg string) *Error {
	return &Error{node, kind, msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("%s (%s)", e.Msg, e.Kind)
	}
	//
	return fmt.Sprintf("%s (%s) in \"%s\"", e.Msg, e.Kind, e.Node.String())
}

// Unwrap returns the kind of this error.
func (e *Error) Unwrap() error {
	return e.Kind
}
