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

package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewLInvariant(t *testing.T) {
	tok := NewL(L, NoSubtype, 3, 6)
	if tok.RStart != tok.REnd || tok.RStart != tok.LEnd {
		t.Errorf("NewL: R_start=R_end=L_end invariant violated: %+v", tok)
	}
}

func TestNewRInvariant(t *testing.T) {
	tok := NewR(R, NoSubtype, 3, 6)
	if tok.LStart != tok.LEnd || tok.LStart != tok.RStart {
		t.Errorf("NewR: L_start=L_end=R_start invariant violated: %+v", tok)
	}
}

func TestRangeSingleAndPivoted(t *testing.T) {
	src := []byte("foo:bar")
	single := NewSingleRange(IDENTIFIER, NoSubtype, 0, 3)
	if start, end := single.Range(); start != 0 || end != 3 {
		t.Errorf("Range() = %d,%d, want 0,3", start, end)
	}

	pivoted := NewLR(LR, NoSubtype, 0, 3, 4, 7)
	if start, end := pivoted.Range(); start != 0 || end != 7 {
		t.Errorf("Range() = %d,%d, want 0,7", start, end)
	}
	if got, want := pivoted.LText(src), "foo"; got != want {
		t.Errorf("LText() = %q, want %q", got, want)
	}
	if got, want := pivoted.RText(src), "bar"; got != want {
		t.Errorf("RText() = %q, want %q", got, want)
	}
}

func TestQualifierFlagsOrCombine(t *testing.T) {
	entry, _ := QLWord("entry")
	mut, _ := QLWord("mut")
	combined := entry | mut
	if combined&QLEntry == 0 || combined&QLMut == 0 {
		t.Errorf("combined QL flags = %#x, want both ENTRY and MUT bits set", combined)
	}
	if combined&QLInc != 0 {
		t.Errorf("combined QL flags = %#x, INC bit should not be set", combined)
	}
}

func TestQualifierWordUnknown(t *testing.T) {
	if _, ok := QLWord("bogus"); ok {
		t.Error("QLWord(bogus) should not be valid")
	}
	if _, ok := QRWord("mut"); ok {
		t.Error(`QRWord("mut") should not be valid: mut is an L-side-only qualifier`)
	}
}

func TestTokenEqualityViaCmp(t *testing.T) {
	a := NewSingleRange(COMMAND, Hash, 0, 1)
	b := NewSingleRange(COMMAND, Hash, 0, 1)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("identical tokens differ (-a +b):\n%s", diff)
	}
}

func TestDebugString(t *testing.T) {
	src := []byte("#foo:bar")
	cmdTok := NewSingleRange(COMMAND, Hash, 0, 1)
	if got, want := cmdTok.DebugString(src), "COM \t #"; got != want {
		t.Errorf("DebugString() = %q, want %q", got, want)
	}

	lr := NewLR(QLR, QLEntry|QRDefault, 0, 5, 6, 7)
	want := "QLR \t " + string(src[0:5]) + ", " + string(src[6:7])
	if got := lr.DebugString(src); got != want {
		t.Errorf("DebugString() = %q, want %q", got, want)
	}
}
