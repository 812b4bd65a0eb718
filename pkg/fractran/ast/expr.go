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
package ast

import (
	"math/big"
	"strings"
)

// Expr is a node in the expression tree produced by the front end.  The tree
// is deliberately more general than what the fraction compiler accepts, so
// that the compiler (rather than the parser) is responsible for rejecting
// shapes such as subtraction or named variables.  Nodes are always handled by
// pointer, which allows them to be used as keys in a source map.
type Expr interface {
	// String returns a minimally bracketed rendering of this expression.
	String() string
	// precedence of this node, used to decide when brackets are needed.
	precedence() uint
}

// Constant is an integer literal, held exactly as written.
type Constant struct {
	Value big.Int
}

// Var is a named identifier.  FRACTRAN has no variables, but the front end
// still parses them so they can be reported with a location.
type Var struct {
	Name string
}

// Neg is unary negation.
type Neg struct {
	Arg Expr
}

// Add is the sum of two expressions.
type Add struct {
	Left  Expr
	Right Expr
}

// Sub is the difference of two expressions.
type Sub struct {
	Left  Expr
	Right Expr
}

// Mul is the product of two expressions.
type Mul struct {
	Left  Expr
	Right Expr
}

// Div is the quotient of two expressions.
type Div struct {
	Left  Expr
	Right Expr
}

// Pow raises Base to the power of Exponent.
type Pow struct {
	Base     Expr
	Exponent Expr
}

// NewConstant constructs an integer literal.
func NewConstant(value uint64) *Constant {
	var c Constant
	//
	c.Value.SetUint64(value)
	//
	return &c
}

// NewBigConstant constructs an integer literal from an arbitrary precision
// value.
func NewBigConstant(value *big.Int) *Constant {
	var c Constant
	//
	c.Value.Set(value)
	//
	return &c
}

// NewVar constructs a named identifier.
func NewVar(name string) *Var { return &Var{name} }

// NewNeg constructs a negation.
func NewNeg(arg Expr) *Neg { return &Neg{arg} }

// NewAdd constructs a sum.
func NewAdd(lhs, rhs Expr) *Add { return &Add{lhs, rhs} }

// NewSub constructs a difference.
func NewSub(lhs, rhs Expr) *Sub { return &Sub{lhs, rhs} }

// NewMul constructs a product.
func NewMul(lhs, rhs Expr) *Mul { return &Mul{lhs, rhs} }

// NewDiv constructs a quotient.
func NewDiv(lhs, rhs Expr) *Div { return &Div{lhs, rhs} }

// NewPow constructs an exponentiation.
func NewPow(base, exponent Expr) *Pow { return &Pow{base, exponent} }

// Products folds one or more expressions into a left-nested chain of
// multiplications.  This is a convenience for building programs by hand.
func Products(first Expr, rest ...Expr) Expr {
	for _, e := range rest {
		first = NewMul(first, e)
	}
	//
	return first
}

const (
	sumPrecedence     uint = 1
	productPrecedence uint = 2
	unaryPrecedence   uint = 3
	powerPrecedence   uint = 4
	atomPrecedence    uint = 5
)

func (p *Constant) precedence() uint { return atomPrecedence }
func (p *Var) precedence() uint      { return atomPrecedence }
func (p *Neg) precedence() uint      { return unaryPrecedence }
func (p *Add) precedence() uint      { return sumPrecedence }
func (p *Sub) precedence() uint      { return sumPrecedence }
func (p *Mul) precedence() uint      { return productPrecedence }
func (p *Div) precedence() uint      { return productPrecedence }
func (p *Pow) precedence() uint      { return powerPrecedence }

func (p *Constant) String() string { return p.Value.String() }

func (p *Var) String() string { return p.Name }

func (p *Neg) String() string {
	return "-" + bracket(p.Arg, unaryPrecedence)
}

func (p *Add) String() string { return binary(p.Left, "+", p.Right, sumPrecedence) }

func (p *Sub) String() string { return binary(p.Left, "-", p.Right, sumPrecedence) }

func (p *Mul) String() string { return binary(p.Left, "*", p.Right, productPrecedence) }

func (p *Div) String() string { return binary(p.Left, "/", p.Right, productPrecedence) }

// Exponentiation is right associative, so only the base needs tighter binding.
func (p *Pow) String() string {
	return bracket(p.Base, powerPrecedence+1) + "^" + bracket(p.Exponent, powerPrecedence)
}

// Left associative operators: the right operand must bind strictly tighter to
// reproduce the same tree when reparsed.
func binary(lhs Expr, op string, rhs Expr, prec uint) string {
	var builder strings.Builder
	//
	builder.WriteString(bracket(lhs, prec))
	builder.WriteString(op)
	builder.WriteString(bracket(rhs, prec+1))
	//
	return builder.String()
}

func bracket(e Expr, minimum uint) string {
	if e.precedence() < minimum {
		return "(" + e.String() + ")"
	}
	//
	return e.String()
}
