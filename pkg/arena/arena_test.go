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

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceGrowsInChunks(t *testing.T) {
	a := New[int](2, 0)

	var indices []int
	for i := 0; i < 5; i++ {
		idx, ok := a.Advance()
		require.True(t, ok, "Advance should succeed while unbounded")
		indices = append(indices, idx)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices)
	assert.Equal(t, 5, a.Len())

	// Elements never explicitly written read back as the zero value.
	for _, idx := range indices {
		assert.Equal(t, 0, *a.At(idx))
	}
}

func TestAdvanceRespectsMaxElems(t *testing.T) {
	a := New[byte](4, 3)

	for i := 0; i < 3; i++ {
		_, ok := a.Advance()
		require.True(t, ok)
	}
	_, ok := a.Advance()
	assert.False(t, ok, "Advance past maxElems should fail")
}

func TestFit(t *testing.T) {
	a := New[int](4, 0)
	assert.True(t, a.Fit(4), "a fresh chunk should fit its own size")
	assert.False(t, a.Fit(5), "a fresh chunk should not fit more than its own size")

	a.Advance()
	assert.True(t, a.Fit(3))
	assert.False(t, a.Fit(4))
}

func TestSaveRestoreIsIdempotent(t *testing.T) {
	a := New[int](3, 0)
	for i := 0; i < 3; i++ {
		idx, _ := a.Advance()
		*a.At(idx) = i + 1
	}
	before := a.Len()

	a.Save()
	for i := 0; i < 10; i++ {
		idx, ok := a.Advance()
		require.True(t, ok)
		*a.At(idx) = -1
	}
	a.Restore()

	assert.Equal(t, before, a.Len(), "Restore should return the cursor to the saved count")
	for i := 0; i < before; i++ {
		assert.Equal(t, i+1, *a.At(i), "Restore must not disturb data committed before Save")
	}

	// A second, unrelated save/restore cycle should behave identically.
	a.Save()
	a.Advance()
	a.Restore()
	assert.Equal(t, before, a.Len())
}

func TestClearKeepsAllocations(t *testing.T) {
	a := New[int](2, 0)
	a.Advance()
	a.Save()
	idx, _ := a.Advance()
	*a.At(idx) = 42
	a.Clear()

	assert.Equal(t, 2, a.Len(), "Clear must not roll back a committed attempt")
	assert.Equal(t, 42, *a.At(idx))
}

func TestRestoreWithoutSavePanics(t *testing.T) {
	a := New[int](2, 0)
	assert.Panics(t, func() { a.Restore() })
}
