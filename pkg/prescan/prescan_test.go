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

package prescan

import (
	"testing"

	"github.com/openconfig/gnmi/errdiff"

	"github.com/colonlang/pivot/pkg/source"
)

func TestScanAccepts(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain identifier", "foo"},
		{"command", "#module"},
		{"balanced delimiters", "foo ( bar [ baz ] { qux } )"},
		{"backtick string", "x ` hello world ` y"},
		{"char literal", "x 'a' y"},
		{"line comment", "!-- a comment\nx"},
		{"line comment at eof", "x !-- trailing"},
		{"block comment", "x |-- spans\nlines --| y"},
		{"escaped graphic", `x \y`},
		{"colon before identifier", ":foo"},
		{"colon before command", ":#foo"},
		{"colon before paren", ":(foo)"},
		{"colon before bracket", ":[foo]"},
		{"colon before ampersand", ":&foo"},
		{"colon name pivot", "foo:bar"},
		{"colon right only", "x :bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.New(tt.name, []byte(tt.text))
			if err := Scan(src); err != nil {
				t.Errorf("Scan(%q) = %v, want nil", tt.text, err)
			}
		})
	}
}

func TestScanRejects(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantErrSubstr string
	}{
		{"unmatched open", "foo ( bar", "unmatched opening delimiter"},
		{"unmatched close", "foo ) bar", "unmatched closing delimiter"},
		{"mismatched delimiter", "foo ( bar ]", "mismatched delimiter"},
		{"unterminated string", "x `unterminated", "unterminated string literal"},
		{"unterminated block comment", "x |-- never closes", "unterminated block comment"},
		{"backslash before whitespace", "x \\ y", "backslash not followed by a graphic character"},
		{"backslash at eof", `x \`, "backslash not followed by a graphic character"},
		{"colon at eof", "x :", "colon followed by end of source"},
		{"double colon", "::foo", "colon followed by another colon"},
		{"lonely colon", "x : y", "lonely colon"},
		{"colon before rparen", ":)", "colon starting a lone run must be followed by"},
		{"mid-word colon at eof", "foo:", "colon followed by end of source"},
		{"mid-word double colon", "foo::bar", "colon followed by another colon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.New(tt.name, []byte(tt.text))
			err := Scan(src)
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Errorf("Scan(%q): %s", tt.text, diff)
			}
		})
	}
}

func TestScanNestedDelimiters(t *testing.T) {
	src := source.New("nested", []byte("a ( b [ c { d } e ] f ) g"))
	if err := Scan(src); err != nil {
		t.Errorf("Scan() = %v, want nil", err)
	}
}

func TestScanDelimitersGluedMidWord(t *testing.T) {
	// The pre-scan is a byte-by-byte sweep, not a word-by-word one, so a
	// delimiter glued to the end of a longer run (as real qualifier
	// brackets like "[mut inc]" always are) is still seen and matched.
	src := source.New("glued", []byte("a)b"))
	err := Scan(src)
	if err == nil {
		t.Fatal("Scan() = nil, want an unmatched-closing-delimiter error")
	}
	if diff := errdiff.Substring(err, "unmatched closing delimiter"); diff != "" {
		t.Error(diff)
	}
}

func TestScanQualifierBracketGluedToWords(t *testing.T) {
	// The canonical "[mut inc] foo" shape glues '[' to "mut" and ']' to
	// "inc" with no surrounding space; the pre-scan must still balance it.
	src := source.New("qualifier", []byte("[mut inc] foo"))
	if err := Scan(src); err != nil {
		t.Errorf("Scan() = %v, want nil", err)
	}
}

func TestScanStringHidesComments(t *testing.T) {
	// Inside a backtick string, '!' and '|' do not start comments, so an
	// unterminated block comment marker between backticks is just text.
	src := source.New("stringed", []byte("x ` a |-- b ` y"))
	if err := Scan(src); err != nil {
		t.Errorf("Scan() = %v, want nil", err)
	}
}

func TestScanClosingBacktickGluedMidWord(t *testing.T) {
	// The closing backtick in "hello`" is mid-word but still a single
	// byte the sweep inspects directly, so the string closes normally.
	src := source.New("glued-close", []byte("x `hello` y"))
	if err := Scan(src); err != nil {
		t.Errorf("Scan() = %v, want nil", err)
	}
}
