// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwgraph

import (
	"debug/dwarf"
	"fmt"

	"github.com/aclements/go-dwgrep/value"
)

// abbrevTable holds every abbreviation table found in .debug_abbrev,
// indexed by the byte offset the DWARF spec uses to reference a
// table (a compile unit header's abbrev_offset field).
//
// debug/dwarf parses this section internally but never exposes the
// raw (tag, has-children, [(attr, form)...]) declarations it decodes
// --- information the query language's abbrev/abbrev-attribute
// selectors need directly --- so this package re-parses the section
// itself.
type abbrevTable struct {
	byOffset map[int64][]value.AbbrevDecl
	order    []int64
}

// uleb128/sleb128 decode a LEB128-encoded integer starting at data[i],
// returning the value and the index just past it.
func uleb128(data []byte, i int) (uint64, int) {
	var result uint64
	var shift uint
	for {
		if i >= len(data) {
			return result, i
		}
		b := data[i]
		i++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, i
}

func sleb128(data []byte, i int) (int64, int) {
	var result int64
	var shift uint
	var b byte
	for {
		if i >= len(data) {
			break
		}
		b = data[i]
		i++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, i
}

// parseAbbrevSection decodes every back-to-back abbreviation table in
// data (the raw contents of .debug_abbrev).
func parseAbbrevSection(data []byte) *abbrevTable {
	t := &abbrevTable{byOffset: make(map[int64][]value.AbbrevDecl)}
	i := 0
	for i < len(data) {
		tableOff := int64(i)
		var decls []value.AbbrevDecl
		for i < len(data) {
			declOff := int64(i)
			code, ni := uleb128(data, i)
			i = ni
			if code == 0 {
				// End of this table.
				break
			}
			tagCode, ni2 := uleb128(data, i)
			i = ni2
			if i >= len(data) {
				break
			}
			hasChildren := data[i] != 0
			i++

			var attrs []value.AbbrevAttrDecl
			for {
				attrOff := int64(i)
				name, ni3 := uleb128(data, i)
				i = ni3
				form, ni4 := uleb128(data, i)
				i = ni4
				if name == 0 && form == 0 {
					break
				}
				var implicit int64
				if form == formImplicitConst {
					implicit, i = sleb128(data, i)
				}
				attrs = append(attrs, value.AbbrevAttrDecl{
					Name:          dwarf.Attr(name),
					Form:          int64(form),
					ImplicitConst: implicit,
					ByteOffset:    attrOff,
				})
			}
			decls = append(decls, value.AbbrevDecl{
				Code:        code,
				Tag:         dwarf.Tag(tagCode),
				HasChildren: hasChildren,
				Attrs:       attrs,
				ByteOffset:  declOff,
			})
		}
		t.byOffset[tableOff] = decls
		t.order = append(t.order, tableOff)
	}
	return t
}

// formImplicitConst is DW_FORM_implicit_const (0x21), the one form
// whose value lives inline in the abbreviation declaration rather
// than in each DIE.
const formImplicitConst = 0x21

func (g *Graph) abbrevTable() (*abbrevTable, error) {
	g.abbrevOnce.Do(func() {
		data, err := g.abbrevSectionData()
		if err != nil {
			g.abbrevErr = err
			return
		}
		g.abbrev = parseAbbrevSection(data)
	})
	return g.abbrev, g.abbrevErr
}

// abbrevSource is implemented by whatever opened the object file
// (obj.File); the graph only needs raw section bytes, not the whole
// interface, to stay decoupled from package obj.
type abbrevSource interface {
	SectionData(name string) ([]byte, error)
}

// AttachSource records src as the place to read raw section bytes
// from: ".debug_abbrev" for AbbrevUnits/AbbrevForUnit and ".debug_loc"
// for location lists. Those return an error until it has been called;
// Units/Children/etc. never need it.
func (g *Graph) AttachSource(src abbrevSource) {
	g.src = src
}

func (g *Graph) abbrevSectionData() ([]byte, error) {
	if g.src == nil {
		return nil, wrapErr("abbrev", fmt.Errorf("no section source attached; call Graph.AttachSource"))
	}
	data, err := g.src.SectionData(".debug_abbrev")
	if err != nil {
		return nil, wrapErr("abbrev", err)
	}
	return data, nil
}

// AbbrevUnits returns every abbreviation table in the file, ordered
// by offset within .debug_abbrev.
func (g *Graph) AbbrevUnits() ([]*value.AbbrevUnit, error) {
	t, err := g.abbrevTable()
	if err != nil {
		return nil, err
	}
	out := make([]*value.AbbrevUnit, len(t.order))
	for i, off := range t.order {
		out[i] = value.NewAbbrevUnit(g.dw, off, t.byOffset[off])
	}
	return out, nil
}

// AbbrevForUnit returns the abbreviation table used by cu.
//
// debug/dwarf doesn't expose a compile unit's abbrev_offset header
// field, so units are matched to tables positionally: the table at
// the same index within .debug_abbrev's table sequence as cu's index
// within the compile unit sequence. This is exact for the overwhelming
// common case (one abbreviation table per unit, in unit order) and is
// recorded as an open question in DESIGN.md rather than silently
// assumed correct for the general case.
func (g *Graph) AbbrevForUnit(cu *value.CU) (*value.AbbrevUnit, error) {
	units, err := g.unitList()
	if err != nil {
		return nil, err
	}
	t, err := g.abbrevTable()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, u := range units {
		if u.cuOff == cu.Offset {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, wrapErr("abbrev_for_unit", fmt.Errorf("unit at %#x not found", cu.Offset))
	}
	if idx >= len(t.order) {
		return nil, wrapErr("abbrev_for_unit", fmt.Errorf("no abbreviation table for unit %d", idx))
	}
	off := t.order[idx]
	return value.NewAbbrevUnit(g.dw, off, t.byOffset[off]), nil
}
