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
package termio

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal determines whether a given writer is connected to a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	//
	return false
}

// Width returns the width of the terminal connected to a given writer.  If the
// writer is not a terminal, or its size cannot be determined, false is
// returned.
func Width(w io.Writer) (uint, bool) {
	f, ok := w.(*os.File)
	//
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	} else if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return uint(width), true
	}
	//
	return 0, false
}

// Truncate a line of text so that it fits within a given width, marking any
// truncation with "..".  The width is measured in runes.
func Truncate(line string, width uint) string {
	runes := []rune(line)
	//
	if uint(len(runes)) <= width {
		return line
	} else if width <= 2 {
		return string(runes[:width])
	}
	//
	return string(runes[:width-2]) + ".."
}
