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
	"errors"
	"fmt"

	"github.com/consensys/go-fractran/pkg/fractran/ast"
	"github.com/consensys/go-fractran/pkg/fractran/compiler"
	"github.com/consensys/go-fractran/pkg/fractran/factor"
	"github.com/consensys/go-fractran/pkg/fractran/machine"
	"github.com/consensys/go-fractran/pkg/fractran/parser"
	"github.com/consensys/go-fractran/pkg/fractran/program"
	"github.com/consensys/go-fractran/pkg/util"
	"github.com/consensys/go-fractran/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Constructor creates a fresh interpreter for a compiled program from a given
// initial state.  Each call yields an independent interpreter.
type Constructor func(initial []uint64) (*machine.Interpreter, error)

// Compile a sequence of fraction expressions into a constructor for
// interpreters of the resulting program, using the default configuration.
func Compile(exprs ...ast.Expr) (Constructor, error) {
	prog, err := CompileProgram(exprs)
	if err != nil {
		return nil, err
	}
	//
	return NewConstructor(prog), nil
}

// NewConstructor returns a constructor for interpreters of a given program.
func NewConstructor(prog *program.Program) Constructor {
	return func(initial []uint64) (*machine.Interpreter, error) {
		return machine.New(prog, initial)
	}
}

// CompileProgram runs the full compilation pipeline over a sequence of
// fraction expressions: raw fractions, prime registry, register allocation
// and finally rule synthesis.
func CompileProgram(exprs []ast.Expr, options ...Option) (*program.Program, error) {
	var (
		config = configure(options)
		stats  = util.NewPerfStats()
	)
	//
	raws, err := compiler.CompileAll(exprs)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("compiled %d fractions", len(raws))
	//
	registry, err := factor.SieveFor(raws, config.SieveLimit)
	if err != nil {
		return nil, err
	}
	//
	fractions, registers, err := registry.Allocate(raws)
	if err != nil {
		return nil, err
	}
	//
	prog := program.Synthesize(fractions, registers, registry)
	//
	log.Debugf("synthesised %d rules over %d registers", len(prog.Rules()), prog.Registers())
	stats.Log("Compilation")
	//
	return prog, nil
}

// CompileSource parses and compiles a source file.  Any failure, whether during
// parsing or compilation, is reported as a syntax error against the source.
func CompileSource(srcfile *source.File, options ...Option) (*program.Program, []source.SyntaxError) {
	exprs, srcmap, errs := parser.Parse(srcfile)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	prog, err := CompileProgram(exprs, options...)
	if err != nil {
		return nil, []source.SyntaxError{*toSyntaxError(srcmap, err)}
	}
	//
	return prog, nil
}

// CompileFile reads, parses and compiles a source file from disk.
func CompileFile(filename string, options ...Option) (*program.Program, []source.SyntaxError, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	//
	prog, errs := CompileSource(srcfile, options...)
	//
	return prog, errs, nil
}

// CompileString compiles a program given directly as text, such as one typed
// at a prompt or embedded in an experiment file.
func CompileString(name string, text string, options ...Option) (*program.Program, []source.SyntaxError) {
	return CompileSource(source.NewSourceFile(name, []byte(text)), options...)
}

func toSyntaxError(srcmap *source.Map[ast.Expr], err error) *source.SyntaxError {
	var cerr *compiler.Error
	//
	if errors.As(err, &cerr) {
		return srcmap.SyntaxError(cerr.Node, fmt.Sprintf("%s (%s)", cerr.Msg, cerr.Kind))
	}
	//
	return srcmap.SyntaxError(nil, err.Error())
}
