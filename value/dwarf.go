// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"debug/dwarf"
	"reflect"
)

// ptrOf returns a comparable, totally-ordered stand-in for a
// pointer's identity, used only to put a consistent (if otherwise
// meaningless) order on values from two distinct *dwarf.Data that
// happen to share a display path.
func ptrOf(p *dwarf.Data) uintptr {
	return reflect.ValueOf(p).Pointer()
}

// Dwarf is a handle on one opened object file's DWARF debug
// information (§3: "file name + opaque provider context"). All
// values derived from a file share the same *dwarf.Data by
// reference; Provider is deliberately the stdlib type rather than a
// reinvented wrapper, the way the teacher's dbg.Data held a bare
// *dwarf.Data rather than copying it.
type Dwarf struct {
	base
	Path     string
	Provider *dwarf.Data
}

func NewDwarf(path string, dw *dwarf.Data) *Dwarf {
	return &Dwarf{Path: path, Provider: dw}
}

func (v *Dwarf) Tag() Tag { return TDwarf }

func (v *Dwarf) Clone() Value {
	return &Dwarf{base: base{v.pos}, Path: v.Path, Provider: v.Provider}
}

func (v *Dwarf) Show(brief bool) string {
	if brief {
		return v.Path
	}
	return "dwarf<" + v.Path + ">"
}

func (v *Dwarf) compare(o *Dwarf) Ordering {
	switch {
	case v.Provider != o.Provider:
		if v.Path < o.Path {
			return Less
		} else if v.Path > o.Path {
			return Greater
		}
		// Different handles that happen to share a path compare by
		// pointer identity so two distinct opens of the same path are
		// not conflated.
		if uintptr(ptrOf(v.Provider)) < uintptr(ptrOf(o.Provider)) {
			return Less
		}
		return Greater
	default:
		return Equal
	}
}

// CU is a DWARF compilation unit.
type CU struct {
	base
	Dw     *Dwarf
	Entry  *dwarf.Entry
	Offset dwarf.Offset
}

func NewCU(dw *Dwarf, ent *dwarf.Entry, off dwarf.Offset) *CU {
	return &CU{Dw: dw, Entry: ent, Offset: off}
}

func (v *CU) Tag() Tag { return TCU }

func (v *CU) Clone() Value {
	return &CU{base: base{v.pos}, Dw: v.Dw, Entry: v.Entry, Offset: v.Offset}
}

func (v *CU) Show(brief bool) string {
	name, _ := v.Entry.Val(dwarf.AttrName).(string)
	if brief {
		return name
	}
	return "CU<" + name + ">"
}

func (v *CU) compare(o *CU) Ordering {
	return compareOffset(v.Dw, v.Offset, o.Dw, o.Offset)
}

// Die is a single Debugging Information Entry.
//
// Identity is (Dw, Offset), refined by ImportPath only when both
// sides are Cooked and carry a non-empty path (§3, §E.3): a DIE
// reached through an imported (merged) unit view is a distinct value
// from the "same" DIE reached directly, but only once the caller has
// opted into cooked, import-aware traversal.
type Die struct {
	base
	Dw    *Dwarf
	Entry *dwarf.Entry

	// Cooked is true if this DIE was produced by a cooked (import-
	// merging) traversal; false for raw, physical-layout traversal.
	Cooked bool
	// ImportPath, when non-empty, is the chain of TagImportedUnit
	// offsets through which this DIE was reached in a cooked,
	// merged-unit view.
	ImportPath []dwarf.Offset
}

func NewDie(dw *Dwarf, ent *dwarf.Entry) *Die {
	return &Die{Dw: dw, Entry: ent}
}

func (v *Die) Tag() Tag { return TDie }

func (v *Die) Clone() Value {
	var path []dwarf.Offset
	if v.ImportPath != nil {
		path = append([]dwarf.Offset(nil), v.ImportPath...)
	}
	return &Die{base: base{v.pos}, Dw: v.Dw, Entry: v.Entry, Cooked: v.Cooked, ImportPath: path}
}

func (v *Die) Show(brief bool) string {
	name, _ := v.Entry.Val(dwarf.AttrName).(string)
	if brief {
		if name != "" {
			return name
		}
		return v.Entry.Tag.String()
	}
	return "DIE<" + v.Entry.Tag.String() + " \"" + name + "\">"
}

func (v *Die) compare(o *Die) Ordering {
	ord := compareOffset(v.Dw, v.Entry.Offset, o.Dw, o.Entry.Offset)
	if ord != Equal {
		return ord
	}
	if !v.Cooked || !o.Cooked || len(v.ImportPath) == 0 || len(o.ImportPath) == 0 {
		return Equal
	}
	return comparePaths(v.ImportPath, o.ImportPath)
}

func comparePaths(a, b []dwarf.Offset) Ordering {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return Less
		} else if a[i] > b[i] {
			return Greater
		}
	}
	switch {
	case len(a) < len(b):
		return Less
	case len(a) > len(b):
		return Greater
	default:
		return Equal
	}
}

// Attr is a single DWARF attribute, owned by a DIE.
type Attr struct {
	base
	Dw    *Dwarf
	Owner *dwarf.Entry
	Field *dwarf.Field
}

func NewAttr(dw *Dwarf, owner *dwarf.Entry, f *dwarf.Field) *Attr {
	return &Attr{Dw: dw, Owner: owner, Field: f}
}

func (v *Attr) Tag() Tag { return TAttr }

func (v *Attr) Clone() Value {
	return &Attr{base: base{v.pos}, Dw: v.Dw, Owner: v.Owner, Field: v.Field}
}

func (v *Attr) Show(brief bool) string {
	name := v.Field.Attr.String()
	if brief {
		return name
	}
	return "ATTR<" + name + ">"
}

func (v *Attr) compare(o *Attr) Ordering {
	ord := compareOffset(v.Dw, v.Owner.Offset, o.Dw, o.Owner.Offset)
	if ord != Equal {
		return ord
	}
	switch {
	case v.Field.Attr < o.Field.Attr:
		return Less
	case v.Field.Attr > o.Field.Attr:
		return Greater
	default:
		return Equal
	}
}

func compareOffset(dw1 *Dwarf, off1 dwarf.Offset, dw2 *Dwarf, off2 dwarf.Offset) Ordering {
	if dw1.Provider != dw2.Provider {
		if dw1.Path != dw2.Path {
			if dw1.Path < dw2.Path {
				return Less
			}
			return Greater
		}
		if uintptr(ptrOf(dw1.Provider)) < uintptr(ptrOf(dw2.Provider)) {
			return Less
		}
		return Greater
	}
	switch {
	case off1 < off2:
		return Less
	case off1 > off2:
		return Greater
	default:
		return Equal
	}
}
