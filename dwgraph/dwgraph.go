// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dwgraph adapts a *dwarf.Data into the graph of compile
// units, DIEs, and attributes the query engine walks: it is the
// engine's one collaborator with the object-file world, matching the
// "ELF and build-id helpers" the query language treats as an external
// dependency it never inspects directly.
package dwgraph

import (
	"debug/dwarf"
	"fmt"
	"sync"

	"github.com/aclements/go-dwgrep/value"
)

// DwarfError reports a failure reading or interpreting DWARF data.
type DwarfError struct {
	Op  string
	Err error
}

func (e *DwarfError) Error() string { return fmt.Sprintf("dwarf: %s: %v", e.Op, e.Err) }
func (e *DwarfError) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DwarfError{Op: op, Err: err}
}

// Graph is a query-ready view of one object file's DWARF data: it
// resolves the raw *dwarf.Data into compile units, a parent/child DIE
// index built lazily per unit, and a re-parsed abbreviation table (the
// one piece of data debug/dwarf doesn't expose on its own).
type Graph struct {
	dw  *value.Dwarf
	src abbrevSource

	unitsOnce sync.Once
	units     []*unitInfo
	unitsErr  error

	abbrevOnce sync.Once
	abbrev     *abbrevTable
	abbrevErr  error
}

// unitInfo caches one compile unit's root entry, offset, and the
// parent/child index built by a single depth-first walk.
type unitInfo struct {
	cuEntry *dwarf.Entry
	cuOff   dwarf.Offset

	indexOnce sync.Once
	index     *dieIndex
	indexErr  error
}

// dieIndex is the parent/children/prev/next relationships for every
// DIE within one compile unit, keyed by offset. debug/dwarf's own
// Reader only supports a linear, depth-tracked walk; the query
// language needs parent, sibling, and child navigation from an
// arbitrary starting DIE, so the graph builds this index once per
// unit and reuses it (§6: "caches parent relationships").
type dieIndex struct {
	children map[dwarf.Offset][]dwarf.Offset
	parent   map[dwarf.Offset]dwarf.Offset
	entry    map[dwarf.Offset]*dwarf.Entry
}

// New wraps dw as a query-ready graph.
func New(dw *value.Dwarf) *Graph {
	return &Graph{dw: dw}
}

func (g *Graph) provider() *dwarf.Data { return g.dw.Provider }

// unitList lazily enumerates every compile unit's root entry and offset.
func (g *Graph) unitList() ([]*unitInfo, error) {
	g.unitsOnce.Do(func() {
		r := g.provider().Reader()
		for {
			ent, err := r.Next()
			if err != nil {
				g.unitsErr = wrapErr("iterate_units", err)
				return
			}
			if ent == nil {
				break
			}
			off := ent.Offset
			if ent.Tag != dwarf.TagCompileUnit {
				// Malformed or unexpected top-level entry; skip past its
				// children rather than mis-parenting them.
				r.SkipChildren()
				continue
			}
			g.units = append(g.units, &unitInfo{cuEntry: ent, cuOff: off})
			r.SkipChildren()
		}
	})
	return g.units, g.unitsErr
}

// Units returns every compile unit in the graph, as query values.
func (g *Graph) Units() ([]*value.CU, error) {
	units, err := g.unitList()
	if err != nil {
		return nil, err
	}
	out := make([]*value.CU, len(units))
	for i, u := range units {
		out[i] = value.NewCU(g.dw, u.cuEntry, u.cuOff)
	}
	return out, nil
}

// RootDie returns the root DIE of the compile unit cu belongs to.
func (g *Graph) RootDie(cu *value.CU) *value.Die {
	return value.NewDie(g.dw, cu.Entry)
}

// unitFor returns the unitInfo owning the DIE at off: the last unit in
// the cached unit list whose compile-unit offset is <= off.
func (g *Graph) unitFor(off dwarf.Offset) (*unitInfo, error) {
	units, err := g.unitList()
	if err != nil {
		return nil, err
	}
	// Compile units are laid out in increasing offset order in
	// .debug_info, and each unit's DIEs all fall within its own byte
	// range, so the owning unit is the last one whose CU offset is <=
	// off.
	var owner *unitInfo
	for _, u := range units {
		if u.cuOff <= off {
			owner = u
		} else {
			break
		}
	}
	if owner == nil {
		return nil, wrapErr("locate_unit", fmt.Errorf("offset %#x precedes any compile unit", off))
	}
	return owner, nil
}

func (u *unitInfo) buildIndex(g *Graph) (*dieIndex, error) {
	u.indexOnce.Do(func() {
		idx := &dieIndex{
			children: make(map[dwarf.Offset][]dwarf.Offset),
			parent:   make(map[dwarf.Offset]dwarf.Offset),
			entry:    make(map[dwarf.Offset]*dwarf.Entry),
		}
		r := g.provider().Reader()
		r.Seek(u.cuOff)
		var stack []dwarf.Offset
		for {
			ent, err := r.Next()
			if err != nil {
				u.indexErr = wrapErr("index_unit", err)
				return
			}
			if ent == nil {
				break
			}
			off := ent.Offset
			if ent.Tag == 0 {
				// Null entry: debug/dwarf's encoding for "end of this
				// sibling list". Pop back to the parent; popping past the
				// unit's root ends this unit's tree before the next CU's
				// entries are read.
				if len(stack) == 0 {
					break
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					break
				}
				continue
			}
			idx.entry[off] = ent
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				idx.parent[off] = parent
				idx.children[parent] = append(idx.children[parent], off)
			}
			if ent.Children {
				stack = append(stack, off)
			}
		}
		u.index = idx
	})
	return u.index, u.indexErr
}
