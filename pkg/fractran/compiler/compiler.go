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
	"math/bits"

	"github.com/consensys/go-fractran/pkg/fractran/ast"
)

// MAX_FACTORS bounds the number of factors a single raw fraction may hold.
// Exponentiation replicates factor lists rather than multiplying them out, so
// "2^100" costs one hundred factors; this limit catches exponents which would
// exhaust memory instead.
const MAX_FACTORS = 1 << 24

// CompileAll compiles a non-empty sequence of top-level fraction expressions
// into raw fractions, preserving their order.  Compilation fails on the first
// fraction (in the order given) which fails.
func CompileAll(fractions []ast.Expr) ([]RawFraction, error) {
	if len(fractions) == 0 {
		return nil, errors.New("program has no fractions")
	}
	//
	raws := make([]RawFraction, len(fractions))
	//
	for i, f := range fractions {
		raw, err := Compile(f)
		if err != nil {
			return nil, err
		}
		//
		raws[i] = raw
	}
	//
	return raws, nil
}

// Compile a single fraction expression into a raw fraction.  Only integer
// literals, addition, multiplication, division and exponentiation by an
// integer are supported.
func Compile(expr ast.Expr) (RawFraction, error) {
	switch e := expr.(type) {
	case *ast.Constant:
		return compileConstant(e)
	case *ast.Mul:
		return compileBinary(e.Left, e.Right, mul)
	case *ast.Div:
		return compileBinary(e.Left, e.Right, div)
	case *ast.Add:
		return compileBinary(e.Left, e.Right, func(l, r RawFraction) (RawFraction, error) {
			return add(e, l, r)
		})
	case *ast.Pow:
		return compilePow(e)
	default:
		return RawFraction{}, NewError(expr, ErrUnsupportedExpression, "expected literal, +, *, / or ^")
	}
}

func compileConstant(e *ast.Constant) (RawFraction, error) {
	if e.Value.Sign() <= 0 {
		return RawFraction{}, NewError(e, ErrUnsupportedExpression, "literal must be positive")
	} else if !e.Value.IsUint64() {
		return RawFraction{}, NewError(e, ErrFactorizationOverflow, "literal exceeds 64 bits")
	}
	//
	return Literal(e.Value.Uint64()), nil
}

func compileBinary(lhs, rhs ast.Expr, op func(RawFraction, RawFraction) (RawFraction, error)) (RawFraction, error) {
	l, err := Compile(lhs)
	if err != nil {
		return RawFraction{}, err
	}
	//
	r, err := Compile(rhs)
	if err != nil {
		return RawFraction{}, err
	}
	//
	return op(l, r)
}

// l * r, without reducing.
func mul(l, r RawFraction) (RawFraction, error) {
	return RawFraction{concat(l.Numerator, r.Numerator), concat(l.Denominator, r.Denominator)}, nil
}

// l * (1/r), without reducing.
func div(l, r RawFraction) (RawFraction, error) {
	return RawFraction{concat(l.Numerator, r.Denominator), concat(l.Denominator, r.Numerator)}, nil
}

// Addition is the one place where factors are multiplied out eagerly.  The
// numerator becomes a single literal, whilst the denominators are kept as
// factor lists.
func add(node ast.Expr, l, r RawFraction) (RawFraction, error) {
	crossL, okL := product(l.Numerator, r.Denominator)
	crossR, okR := product(r.Numerator, l.Denominator)
	sum, carry := bits.Add64(crossL, crossR, 0)
	//
	if !okL || !okR || carry != 0 {
		return RawFraction{}, NewError(node, ErrFactorizationOverflow, "sum exceeds 64 bits")
	}
	//
	return RawFraction{[]uint64{sum}, concat(l.Denominator, r.Denominator)}, nil
}

// Exponentiation replicates the base's factor lists, rather than computing the
// power numerically.  Thus, "2^100" never materialises 2^100.
func compilePow(e *ast.Pow) (RawFraction, error) {
	exp, err := Compile(e.Exponent)
	if err != nil {
		return RawFraction{}, err
	} else if !exp.IsInteger() {
		return RawFraction{}, NewError(e.Exponent, ErrNonIntegerExponent, "denominator must be one")
	}
	//
	n, ok := product(exp.Numerator)
	if !ok {
		return RawFraction{}, NewError(e.Exponent, ErrUnsupportedExpression, "exponent exceeds 64 bits")
	}
	//
	base, err := Compile(e.Base)
	if err != nil {
		return RawFraction{}, err
	}
	//
	width := uint64(max(len(base.Numerator), len(base.Denominator)))
	//
	if hi, lo := bits.Mul64(width, n); hi != 0 || lo > MAX_FACTORS {
		msg := fmt.Sprintf("exponent %d expands to more than %d factors", n, MAX_FACTORS)
		return RawFraction{}, NewError(e, ErrUnsupportedExpression, msg)
	}
	//
	return RawFraction{repeat(base.Numerator, n), repeat(base.Denominator, n)}, nil
}
