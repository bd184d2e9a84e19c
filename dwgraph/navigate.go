// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwgraph

import (
	"debug/dwarf"

	"github.com/aclements/go-dwgrep/value"
)

// Children returns die's immediate children, in document order.
func (g *Graph) Children(die *value.Die) ([]*value.Die, error) {
	u, err := g.unitFor(die.Entry.Offset)
	if err != nil {
		return nil, err
	}
	idx, err := u.buildIndex(g)
	if err != nil {
		return nil, err
	}
	offs := idx.children[die.Entry.Offset]
	out := make([]*value.Die, len(offs))
	for i, off := range offs {
		out[i] = g.dieAt(idx, off, die)
	}
	return out, nil
}

// Parent returns die's parent, or nil if die is a compile unit's root.
func (g *Graph) Parent(die *value.Die) (*value.Die, error) {
	u, err := g.unitFor(die.Entry.Offset)
	if err != nil {
		return nil, err
	}
	idx, err := u.buildIndex(g)
	if err != nil {
		return nil, err
	}
	poff, ok := idx.parent[die.Entry.Offset]
	if !ok {
		return nil, nil
	}
	return g.dieAt(idx, poff, die), nil
}

// siblings returns the full sibling list die belongs to (its
// parent's children, or the unit's singleton root list).
func (g *Graph) siblings(die *value.Die) (*dieIndex, []dwarf.Offset, error) {
	u, err := g.unitFor(die.Entry.Offset)
	if err != nil {
		return nil, nil, err
	}
	idx, err := u.buildIndex(g)
	if err != nil {
		return nil, nil, err
	}
	poff, ok := idx.parent[die.Entry.Offset]
	if !ok {
		return idx, []dwarf.Offset{u.cuOff}, nil
	}
	return idx, idx.children[poff], nil
}

// Prev returns die's immediately preceding sibling, or nil if die is
// the first child (or the compile unit root).
func (g *Graph) Prev(die *value.Die) (*value.Die, error) {
	idx, sibs, err := g.siblings(die)
	if err != nil {
		return nil, err
	}
	for i, off := range sibs {
		if off == die.Entry.Offset {
			if i == 0 {
				return nil, nil
			}
			return g.dieAt(idx, sibs[i-1], die), nil
		}
	}
	return nil, nil
}

// Next returns die's immediately following sibling, or nil if die is
// the last child (or the compile unit root).
func (g *Graph) Next(die *value.Die) (*value.Die, error) {
	idx, sibs, err := g.siblings(die)
	if err != nil {
		return nil, err
	}
	for i, off := range sibs {
		if off == die.Entry.Offset {
			if i+1 >= len(sibs) {
				return nil, nil
			}
			return g.dieAt(idx, sibs[i+1], die), nil
		}
	}
	return nil, nil
}

// dieAt wraps the entry at off as a *value.Die, inheriting like's
// Dwarf handle and cooked/import-path identity. buildIndex records
// every entry it walks, including the unit's own root, so a lookup by
// offset needs no special case for the root.
func (g *Graph) dieAt(idx *dieIndex, off dwarf.Offset, like *value.Die) *value.Die {
	ent := idx.entry[off]
	d := value.NewDie(g.dw, ent)
	d.Cooked = like.Cooked
	if like.Cooked {
		d.ImportPath = append([]dwarf.Offset(nil), like.ImportPath...)
	}
	return d
}

// Attributes returns die's attributes, in declaration order.
func (g *Graph) Attributes(die *value.Die) []*value.Attr {
	out := make([]*value.Attr, len(die.Entry.Field))
	for i := range die.Entry.Field {
		out[i] = value.NewAttr(g.dw, die.Entry, &die.Entry.Field[i])
	}
	return out
}

// AtValue returns the raw decoded value of attr, matching
// dwarf.Field.Val's own type (int64, uint64, string, []byte,
// dwarf.Offset, or bool, depending on the attribute's form).
func (g *Graph) AtValue(attr *value.Attr) interface{} {
	return attr.Field.Val
}

// DieAtOffset resolves off to a DIE within the unit that owns it,
// used to follow DW_FORM_ref* attribute values (f_atval on a
// reference-typed attribute).
func (g *Graph) DieAtOffset(off dwarf.Offset, like *value.Die) (*value.Die, error) {
	u, err := g.unitFor(off)
	if err != nil {
		return nil, err
	}
	idx, err := u.buildIndex(g)
	if err != nil {
		return nil, err
	}
	if off == u.cuOff {
		return value.NewDie(g.dw, u.cuEntry), nil
	}
	ent, ok := idx.entry[off]
	if !ok {
		return nil, wrapErr("die_at_offset", dwarfRefError(off))
	}
	d := value.NewDie(g.dw, ent)
	if like != nil {
		d.Cooked = like.Cooked
		if like.Cooked {
			d.ImportPath = append([]dwarf.Offset(nil), like.ImportPath...)
		}
	}
	return d, nil
}

type dwarfRefError dwarf.Offset

func (e dwarfRefError) Error() string {
	return "no DIE at offset referenced"
}
