// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prescan validates the global well-formedness a source buffer
// must have before the lexer can classify it one token at a time:
// balanced delimiters, closed string literals and comments, a sane
// backslash, and legal colon placement. It runs as a single linear sweep
// ahead of lexing so the classifier never has to recover from, or even
// notice, a structural error.
package prescan

import (
	"fmt"

	"github.com/colonlang/pivot/pkg/lexutil"
	"github.com/colonlang/pivot/pkg/source"
)

// Error reports where and why the pre-scan rejected a source.
type Error struct {
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("prescan: byte %d: %s", e.Offset, e.Reason)
}

// Scan runs the error pre-scan over src and returns nil if the source is
// well formed. It never returns partial state: the first violation found
// ends the sweep immediately.
//
// Unlike the lexer proper, the pre-scan does not work word by word: a
// delimiter, colon or backslash can appear anywhere inside a maximal
// graphic run (e.g. the ']' in "[mut inc]", or the colon in "foo:bar"),
// so every byte of the buffer is inspected in turn.
func Scan(src *source.Source) error {
	content := src.Content
	length := src.Length
	// A delimiter can open at most once per byte of source, so a stack
	// this size can never overflow.
	delimiters := make([]byte, length+1)

	var insideString bool
	var openCount int

	for i := 0; i < length; i++ {
		c := content[i]

		if insideString {
			if c == '`' {
				insideString = false
			}
			continue
		}

		switch {
		case c == '`':
			insideString = true

		case c == '!' && byteAt(content, i+1) == '-' && byteAt(content, i+2) == '-':
			i += 2
			for content[i] != '\n' && content[i] != 0 {
				i++
			}

		case c == '|' && byteAt(content, i+1) == '-' && byteAt(content, i+2) == '-':
			j := i + 2
			for {
				if content[j] == 0 {
					return &Error{i, "unterminated block comment"}
				}
				if blockCommentCloses(content, j) {
					break
				}
				j++
			}
			i = j + 2

		case c == '\\':
			if !lexutil.IsGraphic(byteAt(content, i+1)) {
				return &Error{i, "backslash not followed by a graphic character"}
			}

		case lexutil.IsDelimiterOpen(c):
			delimiters[openCount] = c
			openCount++

		case lexutil.IsDelimiterClose(c):
			if openCount == 0 {
				return &Error{i, "unmatched closing delimiter"}
			}
			openCount--
			if !lexutil.DelimiterMatch(delimiters[openCount], c) {
				return &Error{i, "mismatched delimiter"}
			}

		case c == ':':
			if err := checkColon(content, i); err != nil {
				return err
			}
		}
	}

	if openCount != 0 {
		return &Error{length, "unmatched opening delimiter"}
	}
	if insideString {
		return &Error{length, "unterminated string literal"}
	}
	return nil
}

// blockCommentCloses reports whether i is the position of the "--|"
// closer.
func blockCommentCloses(content []byte, i int) bool {
	return byteAt(content, i) == '-' && byteAt(content, i+1) == '-' && byteAt(content, i+2) == '|'
}

// byteAt returns content[i], or the NUL sentinel if i runs past the end
// of content. The pre-scan only ever looks a small fixed distance beyond
// the cursor, but content's own trailing NUL does not guarantee that
// every such lookahead stays in bounds.
func byteAt(content []byte, i int) byte {
	if i < 0 || i >= len(content) {
		return 0
	}
	return content[i]
}

// checkColon validates the colon found at pos against its immediate
// neighbours. A colon preceded by a graphic character is in the middle of
// a larger run (as in "foo:bar") and is never lonely, so only the
// NUL/double-colon checks apply to it; a colon with no graphic character
// to its left begins its own run and is additionally restricted to the
// small set of characters legally allowed to open a colon-pivoted form.
func checkColon(content []byte, pos int) error {
	left := byteAt(content, pos-1)
	right := byteAt(content, pos+1)

	if right == 0 {
		return &Error{pos, "colon followed by end of source"}
	}
	if right == ':' {
		return &Error{pos, "colon followed by another colon"}
	}

	leftGraphic := lexutil.IsGraphic(left)
	if !leftGraphic && !lexutil.IsGraphic(right) {
		return &Error{pos, "lonely colon"}
	}
	if leftGraphic {
		return nil
	}

	switch {
	case lexutil.IsCommand(right):
	case lexutil.IsIdentifierStart(right):
	case right == '(', right == '[', right == '&':
	default:
		return &Error{pos, "colon starting a lone run must be followed by a command, an identifier, '(', '[' or '&'"}
	}
	return nil
}
