// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"debug/dwarf"
	"fmt"
	"strings"
)

// AbbrevAttrDecl is one (name, form) pair in an abbreviation
// declaration, as read directly out of .debug_abbrev — the one piece
// of DWARF data debug/dwarf parses but doesn't expose, so the DWARF
// adapter (package dwgraph) re-parses it itself.
type AbbrevAttrDecl struct {
	Name          dwarf.Attr
	Form          int64
	ImplicitConst int64 // valid only when Form is DW_FORM_implicit_const
	ByteOffset    int64 // offset of this pair within .debug_abbrev
}

// AbbrevDecl is one tag's declaration within an abbreviation table.
type AbbrevDecl struct {
	Code        uint64
	Tag         dwarf.Tag
	HasChildren bool
	Attrs       []AbbrevAttrDecl
	ByteOffset  int64 // offset of this declaration within .debug_abbrev
}

// AbbrevUnit is the abbreviation table used by one compile unit.
type AbbrevUnit struct {
	base
	Dw     *Dwarf
	Offset int64 // byte offset of the table within .debug_abbrev
	Decls  []AbbrevDecl
}

func NewAbbrevUnit(dw *Dwarf, offset int64, decls []AbbrevDecl) *AbbrevUnit {
	return &AbbrevUnit{Dw: dw, Offset: offset, Decls: decls}
}

func (v *AbbrevUnit) Tag() Tag { return TAbbrevUnit }

func (v *AbbrevUnit) Clone() Value {
	return &AbbrevUnit{base: base{v.pos}, Dw: v.Dw, Offset: v.Offset, Decls: v.Decls}
}

func (v *AbbrevUnit) Show(brief bool) string {
	if brief {
		return fmt.Sprintf("abbrev@%#x", v.Offset)
	}
	return fmt.Sprintf("ABBREV_UNIT<%#x, %d decls>", v.Offset, len(v.Decls))
}

func (v *AbbrevUnit) compare(o *AbbrevUnit) Ordering {
	ord := compareOffset(v.Dw, dwarf.Offset(v.Offset), o.Dw, dwarf.Offset(o.Offset))
	return ord
}

// Abbrev is a single tag declaration within an AbbrevUnit.
type Abbrev struct {
	base
	Dw     *Dwarf
	Unit   int64 // owning AbbrevUnit's Offset
	Decl   AbbrevDecl
}

func NewAbbrev(dw *Dwarf, unit int64, decl AbbrevDecl) *Abbrev {
	return &Abbrev{Dw: dw, Unit: unit, Decl: decl}
}

func (v *Abbrev) Tag() Tag { return TAbbrev }

func (v *Abbrev) Clone() Value {
	return &Abbrev{base: base{v.pos}, Dw: v.Dw, Unit: v.Unit, Decl: v.Decl}
}

func (v *Abbrev) Show(brief bool) string {
	if brief {
		return v.Decl.Tag.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ABBREV<%s code=%d children=%v>", v.Decl.Tag, v.Decl.Code, v.Decl.HasChildren)
	return b.String()
}

func (v *Abbrev) compare(o *Abbrev) Ordering {
	ord := compareOffset(v.Dw, dwarf.Offset(v.Unit), o.Dw, dwarf.Offset(o.Unit))
	if ord != Equal {
		return ord
	}
	switch {
	case v.Decl.ByteOffset < o.Decl.ByteOffset:
		return Less
	case v.Decl.ByteOffset > o.Decl.ByteOffset:
		return Greater
	default:
		return Equal
	}
}

// AbbrevAttr is a single (name, form) declaration within an Abbrev.
type AbbrevAttr struct {
	base
	Dw   *Dwarf
	Decl AbbrevAttrDecl
}

func NewAbbrevAttr(dw *Dwarf, decl AbbrevAttrDecl) *AbbrevAttr {
	return &AbbrevAttr{Dw: dw, Decl: decl}
}

func (v *AbbrevAttr) Tag() Tag { return TAbbrevAttr }

func (v *AbbrevAttr) Clone() Value {
	return &AbbrevAttr{base: base{v.pos}, Dw: v.Dw, Decl: v.Decl}
}

func (v *AbbrevAttr) Show(brief bool) string {
	name := v.Decl.Name.String()
	form := DomainForm.Render(bigFromInt64(v.Decl.Form))
	if brief {
		return name + " " + form
	}
	return "ABBREV_ATTR<" + name + " " + form + ">"
}

func (v *AbbrevAttr) compare(o *AbbrevAttr) Ordering {
	switch {
	case v.Decl.ByteOffset < o.Decl.ByteOffset:
		return Less
	case v.Decl.ByteOffset > o.Decl.ByteOffset:
		return Greater
	default:
		return Equal
	}
}
