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

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/colonlang/pivot/pkg/source"
)

// dumpTokens runs the full front end over src and writes one line per
// token, in the layout debug_print_tokens used for its reference dump. If
// the parser fails after lexing succeeded, the tokens are still written
// and the parser's error is returned.
func dumpTokens(w *os.File, src *source.Source) error {
	toks, _, err := runFrontEnd(src)
	if toks == nil && err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintln(bw, "TOKENS:")
	for _, tok := range toks {
		fmt.Fprintf(bw, "\t%s\n", tok.DebugString(src.Content))
	}
	fmt.Fprintf(bw, "\nNumber of tokens: %d.\n", len(toks))

	return err
}
