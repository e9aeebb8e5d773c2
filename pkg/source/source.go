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

// Package source provides the byte-buffer contract the lexer and the
// error pre-scan are built on: a NUL-terminated, length-known view of the
// program text they classify. Loading the bytes from disk is the only
// concern this package owns; everything past the buffer boundary (lexing,
// parsing) lives in sibling packages.
package source

import (
	"fmt"
	"os"
)

// A Source is an immutable, NUL-terminated byte buffer together with its
// length (which does not count the terminating NUL). Every offset the
// lexer and parser hand out is a byte offset into Content.
type Source struct {
	// Name is where the bytes came from, used only for diagnostics.
	Name string
	// Content is the source text followed by exactly one NUL byte.
	Content []byte
	// Length is len(Content) - 1, i.e. the length of the text without
	// the trailing sentinel.
	Length int
}

// New wraps text as a Source named name, appending the terminating NUL
// sentinel that the lexer and pre-scan rely on to detect end-of-input
// without a bounds check on every byte access.
func New(name string, text []byte) *Source {
	content := make([]byte, len(text)+1)
	copy(content, text)
	// content[len(text)] is already the zero byte.
	return &Source{Name: name, Content: content, Length: len(text)}
}

// readFile is a package-level var so tests can stub the file read.
var readFile = os.ReadFile

// Load reads the file at path and returns it as a Source.
func Load(path string) (*Source, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return New(path, data), nil
}

// At returns the byte at offset i, or the NUL sentinel if i is at or past
// the end of Content (which should not normally happen, since Content
// always carries its own terminator, but guards callers that add a small
// fixed lookahead past Length).
func (s *Source) At(i int) byte {
	if i < 0 || i >= len(s.Content) {
		return 0
	}
	return s.Content[i]
}
