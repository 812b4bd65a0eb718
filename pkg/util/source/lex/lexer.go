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
package lex

import "github.com/consensys/go-fractran/pkg/util/source"

// Token associates a kind with a given range of characters in the text being
// scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// Rule associates groups of characters matched by a scanner with a given
// token kind.
type Rule[T any] struct {
	scanner Scanner[T]
	kind    uint
}

// NewRule constructs a new lexing rule which maps matching characters to a
// given token kind.
func NewRule[T any](scanner Scanner[T], kind uint) Rule[T] {
	return Rule[T]{scanner, kind}
}

// Lexer provides a top-level construct for tokenising a given input.  Rules are
// tried in the order given, and the first rule to match wins.
type Lexer[T any] struct {
	items  []T
	index  int
	rules  []Rule[T]
	buffer []Token
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...Rule[T]) *Lexer[T] {
	return &Lexer[T]{input, 0, rules, nil}
}

// Index returns the current index within the items array.
func (p *Lexer[T]) Index() uint {
	return uint(p.index)
}

// Remaining determines how many items from the original sequence are left.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there are any tokens remaining.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.
func (p *Lexer[T]) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	if p.index == len(p.items) {
		// EOF condition
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Collect tokenises everything that remains in one go.  Tokenising stops early
// when no rule matches, in which case Remaining() is non-zero.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

func (p *Lexer[T]) scan() {
	if len(p.buffer) == 0 && p.index <= len(p.items) {
		for _, r := range p.rules {
			if n := r.scanner(p.items[p.index:]); n > 0 {
				end := min(len(p.items), p.index+int(n))
				span := source.NewSpan(p.index, end)
				p.buffer = append(p.buffer, Token{r.kind, span})
				//
				return
			}
		}
	}
}
