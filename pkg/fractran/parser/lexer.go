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
package parser

import (
	"slices"

	"github.com/consensys/go-fractran/pkg/util/source"
	"github.com/consensys/go-fractran/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals ";; ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// COMMA signals ","
const COMMA uint = 5

// NUMBER signals an integer number
const NUMBER uint = 6

// IDENTIFIER signals a name
const IDENTIFIER uint = 7

// ADD signals "+"
const ADD uint = 8

// SUB signals "-"
const SUB uint = 9

// MUL signals "*"
const MUL uint = 10

// DIV signals "/"
const DIV uint = 11

// POW signals "^"
const POW uint = 12

var whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

var number = lex.Many(lex.Within('0', '9'))

var identifierStart = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

var identifier = lex.And(identifierStart, identifierRest)

// Comments start with ';;' and continue until a newline or EOF.
var comment = lex.And(lex.Unit(';', ';'), lex.Until('\n'))

var rules = []lex.Rule[rune]{
	lex.NewRule(comment, COMMENT),
	lex.NewRule(lex.Unit('('), LBRACE),
	lex.NewRule(lex.Unit(')'), RBRACE),
	lex.NewRule(lex.Unit(','), COMMA),
	lex.NewRule(lex.Unit('+'), ADD),
	lex.NewRule(lex.Unit('-'), SUB),
	lex.NewRule(lex.Unit('*'), MUL),
	lex.NewRule(lex.Unit('/'), DIV),
	lex.NewRule(lex.Unit('^'), POW),
	lex.NewRule(whitespace, WHITESPACE),
	lex.NewRule(number, NUMBER),
	lex.NewRule(identifier, IDENTIFIER),
	lex.NewRule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of tokens, with whitespace and
// comments removed.  The final token is always END_OF.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer  = lex.NewLexer(srcfile.Contents(), rules...)
		tokens = lexer.Collect()
	)
	// Anything left over is text no rule recognises.
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		err := srcfile.SyntaxError(source.NewSpan(start, start+1), "unknown text encountered")
		//
		return nil, []source.SyntaxError{*err}
	}
	//
	return slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT
	}), nil
}
