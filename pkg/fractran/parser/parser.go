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
	"math/big"
	"slices"

	"github.com/consensys/go-fractran/pkg/fractran/ast"
	"github.com/consensys/go-fractran/pkg/util/source"
	"github.com/consensys/go-fractran/pkg/util/source/lex"
)

// Parse accepts a given source file holding a comma-separated list of fraction
// expressions, and parses it into one expression tree per fraction.  The
// returned source map covers every node, so that later stages can report
// errors against the original text.
func Parse(srcfile *source.File) ([]ast.Expr, *source.Map[ast.Expr], []source.SyntaxError) {
	return NewParser(srcfile).Parse()
}

// Parser is a recursive descent parser for fraction expressions.  Operator
// precedence, from loosest to tightest, is: "+" and "-"; "*" and "/"; unary
// "-"; and "^".  All binary operators are left associative except "^".
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.Expr]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	srcmap := source.NewSourceMap[ast.Expr](srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0}
}

// Parse the given source file into a non-empty sequence of fractions, or some
// number of syntax errors.
func (p *Parser) Parse() ([]ast.Expr, *source.Map[ast.Expr], []source.SyntaxError) {
	var (
		fractions []ast.Expr
		fraction  ast.Expr
		errs      []source.SyntaxError
	)
	//
	if p.tokens, errs = Lex(p.srcfile); len(errs) > 0 {
		return nil, p.srcmap, errs
	} else if p.lookahead().Kind == END_OF {
		return nil, p.srcmap, p.syntaxErrors(p.lookahead(), "program has no fractions")
	}
	// Fractions are separated by commas
	for {
		if fraction, errs = p.parseExpr(); len(errs) > 0 {
			return nil, p.srcmap, errs
		}
		//
		fractions = append(fractions, fraction)
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if _, errs = p.expect(END_OF); len(errs) > 0 {
		return nil, p.srcmap, errs
	}
	//
	return fractions, p.srcmap, nil
}

// Parse a sum (or difference) of one or more terms.
func (p *Parser) parseExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseTerm()
		rhs       ast.Expr
	)
	//
	for len(errs) == 0 && p.follows(ADD, SUB) {
		op := p.next().Kind
		//
		if rhs, errs = p.parseTerm(); len(errs) > 0 {
			break
		} else if op == ADD {
			lhs = ast.NewAdd(lhs, rhs)
		} else {
			lhs = ast.NewSub(lhs, rhs)
		}
		//
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

// Parse a product (or quotient) of one or more factors.
func (p *Parser) parseTerm() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseUnary()
		rhs       ast.Expr
	)
	//
	for len(errs) == 0 && p.follows(MUL, DIV) {
		op := p.next().Kind
		//
		if rhs, errs = p.parseUnary(); len(errs) > 0 {
			break
		} else if op == MUL {
			lhs = ast.NewMul(lhs, rhs)
		} else {
			lhs = ast.NewDiv(lhs, rhs)
		}
		//
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

func (p *Parser) parseUnary() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if !p.match(SUB) {
		return p.parsePower()
	}
	//
	arg, errs := p.parseUnary()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	neg := ast.NewNeg(arg)
	p.srcmap.Put(neg, p.spanOf(start, p.index-1))
	//
	return neg, nil
}

// Parse an atom optionally raised to some power.  Since "^" is right
// associative, the exponent is itself parsed as a (signed) power.
func (p *Parser) parsePower() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		base, errs = p.parseAtom()
		exponent   ast.Expr
	)
	//
	if len(errs) > 0 || !p.match(POW) {
		return base, errs
	} else if exponent, errs = p.parseUnary(); len(errs) > 0 {
		return nil, errs
	}
	//
	pow := ast.NewPow(base, exponent)
	p.srcmap.Put(pow, p.spanOf(start, p.index-1))
	//
	return pow, nil
}

func (p *Parser) parseAtom() (ast.Expr, []source.SyntaxError) {
	var (
		lookahead = p.lookahead()
		atom      ast.Expr
	)
	//
	switch lookahead.Kind {
	case NUMBER:
		var val big.Int
		//
		if _, ok := val.SetString(p.string(lookahead), 10); !ok {
			return nil, p.syntaxErrors(lookahead, "malformed numeric literal")
		}
		//
		atom = ast.NewBigConstant(&val)
	case IDENTIFIER:
		atom = ast.NewVar(p.string(lookahead))
	case LBRACE:
		p.next()
		//
		expr, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		// Don't add to source map, since it will already have been added.
		return expr, nil
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.next()
	p.srcmap.Put(atom, lookahead.Span)
	//
	return atom, nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because END_OF is always
// the last token in the stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Next consumes and returns the next token.
func (p *Parser) next() lex.Token {
	token := p.tokens[p.index]
	p.index++
	//
	return token
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
