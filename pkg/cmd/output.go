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
package cmd

import (
	"fmt"
	"io"

	"github.com/consensys/go-fractran/pkg/util/termio"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Output wraps a writer with terminal-aware formatting.  When the writer is a
// terminal, long lines are truncated to its width and ANSI escapes are
// enabled.
type Output struct {
	writer   io.Writer
	width    uint
	terminal bool
	printer  *message.Printer
}

// NewOutput constructs an output for a given writer.
func NewOutput(w io.Writer) *Output {
	width, ok := termio.Width(w)
	//
	return &Output{w, width, ok, message.NewPrinter(language.English)}
}

// Terminal indicates whether this output is connected to a terminal.
func (p *Output) Terminal() bool {
	return p.terminal
}

// Count formats a number with digit grouping, such as "1,000,000".
func (p *Output) Count(n uint) string {
	return p.printer.Sprintf("%d", n)
}

// Line writes a single line, truncating it to the terminal width (if any).
func (p *Output) Line(text string) {
	if p.terminal {
		text = termio.Truncate(text, p.width)
	}
	//
	fmt.Fprintln(p.writer, text)
}

// Highlight applies a given escape to some text, but only on a terminal.
func (p *Output) Highlight(escape termio.AnsiEscape, text string) string {
	if p.terminal {
		return escape.Wrap(text)
	}
	//
	return text
}
