// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwgraph

import (
	"github.com/aclements/go-dwgrep/value"
)

// Ranges returns the PC ranges covered by attr's owning DIE (a
// DW_AT_ranges or DW_AT_low_pc/DW_AT_high_pc pair), via
// debug/dwarf's own range-list decoder.
func (g *Graph) Ranges(attr *value.Attr) (*value.AddrSet, error) {
	ranges, err := g.provider().Ranges(attr.Owner)
	if err != nil {
		return nil, wrapErr("ranges", err)
	}
	set := value.NewAddrSet()
	for _, r := range ranges {
		set.Add(r[0], r[1])
	}
	return set, nil
}
