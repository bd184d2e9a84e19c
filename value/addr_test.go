// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddrSetCoalesces(t *testing.T) {
	s := NewAddrSet()
	s.Add(0x1000, 0x1010)
	s.Add(0x1010, 0x1020) // abuts the first range; should merge

	var ranges [][2]uint64
	s.Ranges(func(lo, hi uint64) { ranges = append(ranges, [2]uint64{lo, hi}) })

	assert.Equal(t, [][2]uint64{{0x1000, 0x1020}}, ranges)
}

func TestAddrSetContains(t *testing.T) {
	s := NewAddrSet()
	s.Add(0x2000, 0x2100)

	assert.True(t, s.Contains(0x2000))
	assert.True(t, s.Contains(0x20ff))
	assert.False(t, s.Contains(0x2100), "high end of a half-open range is excluded")
	assert.False(t, s.Contains(0x1fff))
}

func TestAddrSetDisjointRangesDontMerge(t *testing.T) {
	s := NewAddrSet()
	s.Add(0x1000, 0x1010)
	s.Add(0x2000, 0x2010)

	var ranges [][2]uint64
	s.Ranges(func(lo, hi uint64) { ranges = append(ranges, [2]uint64{lo, hi}) })

	assert.Equal(t, [][2]uint64{{0x1000, 0x1010}, {0x2000, 0x2010}}, ranges)
}
