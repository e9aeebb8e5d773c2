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

// Program pivot pre-scans, lexes and parses colon-pivoted source files and
// dumps the result.
//
// Usage: pivot [--format FORMAT] [FILE ...]
//
// If no FILE is given, standard input is read. FORMAT, which defaults to
// "nodes", selects which stage's output is dumped; use "pivot --help" for
// the list of available formats.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pborman/getopt"

	"github.com/colonlang/pivot/pkg/lexer"
	"github.com/colonlang/pivot/pkg/parser"
	"github.com/colonlang/pivot/pkg/prescan"
	"github.com/colonlang/pivot/pkg/source"
	"github.com/colonlang/pivot/pkg/token"
)

// A formatter dumps the result of running the front end over a Source to
// w. Each stage that can be inspected in isolation registers one.
type formatter struct {
	name string
	f    func(w *os.File, src *source.Source) error
	help string
}

var formatters = map[string]*formatter{}

func register(f *formatter) {
	formatters[f.name] = f
}

func init() {
	register(&formatter{name: "tokens", f: dumpTokens, help: "dump the token stream"})
	register(&formatter{name: "nodes", f: dumpNodes, help: "dump the parsed node tree"})
}

var stop = os.Exit

func main() {
	var format string
	var help bool
	getopt.StringVarLong(&format, "format", 0, "format to display: tokens, nodes", "FORMAT")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("[FILE ...]")

	if err := getopt.Getopt(func(getopt.Option) bool { return true }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		stop(1)
	}

	formats := make([]string, 0, len(formatters))
	for k := range formatters {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		for _, fn := range formats {
			fmt.Fprintf(os.Stderr, "    %s - %s\n", fn, formatters[fn].help)
		}
		stop(0)
	}

	if format == "" {
		format = "nodes"
	}
	fm, ok := formatters[format]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid format.  Choices are %s\n", format, strings.Join(formats, ", "))
		stop(1)
	}

	files := getopt.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	exit := 0
	for _, name := range files {
		src, err := loadSource(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit = 1
			continue
		}
		if err := fm.f(os.Stdout, src); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit = 1
		}
	}
	stop(exit)
}

func loadSource(name string) (*source.Source, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("<STDIN>: %w", err)
		}
		return source.New("<STDIN>", data), nil
	}
	return source.Load(name)
}

// runFrontEnd pre-scans, lexes and parses src, in that order, stopping at
// the first stage that fails.
func runFrontEnd(src *source.Source) ([]token.Token, []parser.Node, error) {
	if err := prescan.Scan(src); err != nil {
		return nil, nil, err
	}
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := parser.Parse(toks)
	if err != nil {
		return toks, nil, err
	}
	return toks, nodes, nil
}
