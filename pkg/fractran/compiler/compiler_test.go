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
	"math/big"
	"testing"

	"github.com/consensys/go-fractran/pkg/fractran/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(v uint64) ast.Expr { return ast.NewConstant(v) }

func Test_Compile_00(t *testing.T) {
	checkCompile(t, n(7), raw([]uint64{7}, []uint64{1}))
}

func Test_Compile_01(t *testing.T) {
	checkCompile(t, ast.NewDiv(n(3), n(2)), raw([]uint64{3, 1}, []uint64{1, 2}))
}

func Test_Compile_02(t *testing.T) {
	// 5*7*13/(11*3)
	e := ast.NewDiv(ast.Products(n(5), n(7), n(13)), ast.NewMul(n(11), n(3)))
	checkCompile(t, e, raw([]uint64{5, 7, 13, 1, 1}, []uint64{1, 1, 1, 11, 3}))
}

func Test_Compile_03(t *testing.T) {
	// 1/2 + 1/3 = (1*3 + 1*2) / (2*3)
	e := ast.NewAdd(ast.NewDiv(n(1), n(2)), ast.NewDiv(n(1), n(3)))
	checkCompile(t, e, raw([]uint64{5}, []uint64{1, 2, 1, 3}))
}

func Test_Compile_04(t *testing.T) {
	// (2+1)*11
	e := ast.NewMul(ast.NewAdd(n(2), n(1)), n(11))
	checkCompile(t, e, raw([]uint64{3, 11}, []uint64{1, 1, 1}))
}

func Test_Compile_05(t *testing.T) {
	// (3/2)^3 replicates factor lists
	e := ast.NewPow(ast.NewDiv(n(3), n(2)), n(3))
	checkCompile(t, e, raw([]uint64{3, 1, 3, 1, 3, 1}, []uint64{1, 2, 1, 2, 1, 2}))
}

func Test_Compile_06(t *testing.T) {
	// exponents are products of their numerator
	e := ast.NewPow(n(2), ast.NewMul(n(2), n(3)))
	checkCompile(t, e, raw([]uint64{2, 2, 2, 2, 2, 2}, []uint64{1, 1, 1, 1, 1, 1}))
}

func Test_Compile_07(t *testing.T) {
	e := ast.NewPow(n(2), n(100))
	r, err := Compile(e)
	//
	require.NoError(t, err)
	assert.Len(t, r.Numerator, 100)
	assert.Len(t, r.Denominator, 100)
	assert.Equal(t, uint64(2), r.Max())
}

func Test_Compile_08(t *testing.T) {
	// 2/2 is not reduced
	checkCompile(t, ast.NewDiv(n(2), n(2)), raw([]uint64{2, 1}, []uint64{1, 2}))
}

func Test_Compile_Invalid_00(t *testing.T) {
	checkCompileError(t, ast.NewSub(n(3), n(2)), ErrUnsupportedExpression)
}

func Test_Compile_Invalid_01(t *testing.T) {
	checkCompileError(t, ast.NewDiv(n(3), ast.NewVar("x")), ErrUnsupportedExpression)
}

func Test_Compile_Invalid_02(t *testing.T) {
	checkCompileError(t, ast.NewNeg(n(3)), ErrUnsupportedExpression)
}

func Test_Compile_Invalid_03(t *testing.T) {
	checkCompileError(t, ast.NewDiv(n(0), n(3)), ErrUnsupportedExpression)
}

func Test_Compile_Invalid_04(t *testing.T) {
	checkCompileError(t, ast.NewPow(n(2), ast.NewDiv(n(1), n(2))), ErrNonIntegerExponent)
}

func Test_Compile_Invalid_05(t *testing.T) {
	// 4/2 has value 2, but its denominator is not all ones.
	checkCompileError(t, ast.NewPow(n(2), ast.NewDiv(n(4), n(2))), ErrNonIntegerExponent)
}

func Test_Compile_Invalid_06(t *testing.T) {
	var huge big.Int
	//
	huge.Lsh(big.NewInt(1), 64)
	checkCompileError(t, ast.NewBigConstant(&huge), ErrFactorizationOverflow)
}

func Test_Compile_Invalid_07(t *testing.T) {
	e := ast.NewAdd(ast.NewMul(n(1<<32), n(1<<32)), n(1))
	checkCompileError(t, e, ErrFactorizationOverflow)
}

func Test_Compile_Invalid_08(t *testing.T) {
	e := ast.NewPow(n(2), ast.NewMul(n(1<<20), n(1<<20)))
	checkCompileError(t, e, ErrUnsupportedExpression)
}

func Test_CompileAll_00(t *testing.T) {
	fractions := []ast.Expr{ast.NewDiv(n(3), n(2)), ast.NewDiv(n(5), n(7))}
	raws, err := CompileAll(fractions)
	//
	require.NoError(t, err)
	assert.Equal(t, []RawFraction{
		raw([]uint64{3, 1}, []uint64{1, 2}),
		raw([]uint64{5, 1}, []uint64{1, 7}),
	}, raws)
}

func Test_CompileAll_01(t *testing.T) {
	first := ast.NewVar("x")
	second := ast.NewPow(n(2), ast.NewDiv(n(1), n(2)))
	_, err := CompileAll([]ast.Expr{n(1), first, second})
	// First error in program order wins
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Same(t, first, cerr.Node)
}

func Test_CompileAll_02(t *testing.T) {
	_, err := CompileAll(nil)
	assert.Error(t, err)
}

func raw(numerator []uint64, denominator []uint64) RawFraction {
	return RawFraction{numerator, denominator}
}

func checkCompile(t *testing.T, e ast.Expr, expected RawFraction) {
	t.Helper()
	//
	actual, err := Compile(e)
	//
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func checkCompileError(t *testing.T, e ast.Expr, kind error) {
	t.Helper()
	//
	_, err := Compile(e)
	//
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
}
