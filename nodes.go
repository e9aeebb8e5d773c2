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

	"github.com/colonlang/pivot/pkg/parser"
	"github.com/colonlang/pivot/pkg/source"
)

// dumpNodes runs the full front end over src and writes one line per node
// (or identification block), in the layout debug_print_nodes used for its
// reference dump.
func dumpNodes(w *os.File, src *source.Source) error {
	_, nodes, err := runFrontEnd(src)
	if nodes == nil && err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintln(bw, "NODES:")
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		switch n.Type {
		case parser.SCOPE_START:
			fmt.Fprintf(bw, "\tSCOPE START (%d NODES)\n", n.Child-i)
		case parser.SCOPE_END:
			fmt.Fprintln(bw, "\tSCOPE END")
		case parser.IDENTIFICATION:
			fmt.Fprintf(bw, "\t%s\n", identificationLine(n, src.Content))
			for c := n.Child; c != parser.NoIndex; {
				child := nodes[c]
				fmt.Fprintf(bw, "\t\t%s\n", childLine(child, src.Content))
				c = child.Child1
			}
		case parser.CHILD:
			// Already written under its IDENTIFICATION.
		default:
			fmt.Fprintf(bw, "\t%d, %d\n", n.Type, n.Subtype)
		}
	}
	fmt.Fprintf(bw, "\nNumber of nodes: %d.\n", len(nodes))

	return err
}

func identificationLine(n parser.Node, content []byte) string {
	command := "# "
	if n.Subtype&parser.CommandAt != 0 {
		command = "@ "
	}
	kind := "DECLARATION"
	if n.Subtype&parser.TypeInitialization != 0 {
		kind = "INITIALIZATION:"
	}
	return fmt.Sprintf("%s%s <%s>", command, kind, n.Token.LText(content))
}

func childLine(n parser.Node, content []byte) string {
	switch n.Subtype {
	case parser.ChildLock:
		return fmt.Sprintf("LOCK <%s>", n.Token.RText(content))
	case parser.ChildReturnNone:
		return "RETURN NONE"
	case parser.ChildReturnLock:
		return fmt.Sprintf("RETURN LOCK <%s>", n.Token.RText(content))
	case parser.ChildParameterNone:
		return "PARAMETER NONE"
	case parser.ChildParameter:
		return fmt.Sprintf("PARAMETER <%s>", n.Token.LText(content))
	case parser.ChildParameterLock:
		return fmt.Sprintf("PARAMETER LOCK <%s>", n.Token.RText(content))
	default:
		return fmt.Sprintf("CHILD %d", n.Subtype)
	}
}
