// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwgraph

import (
	"encoding/binary"
	"fmt"

	"github.com/aclements/go-dwgrep/value"
)

// decodeExpr disassembles one DWARF location expression (the raw
// bytes of a DW_FORM_exprloc attribute, or one entry of a location
// list) into a sequence of OpDecls.
//
// Operand encodings are taken from DWARF5 §2.5; only the forms DWARF
// producers actually emit for variable locations are covered; unknown
// opcodes are passed through with no operands rather than aborting
// the whole expression, since one unrecognized op shouldn't hide the
// rest.
func decodeExpr(data []byte) []value.OpDecl {
	var ops []value.OpDecl
	i := 0
	for i < len(data) {
		off := i
		op := int64(data[i])
		i++
		var operands []int64
		switch {
		case op == 0x03: // DW_OP_addr
			if i+8 <= len(data) {
				operands = []int64{int64(binary.LittleEndian.Uint64(data[i:]))}
				i += 8
			}
		case op >= 0x30 && op <= 0x4f: // DW_OP_lit0..DW_OP_lit31
		case op >= 0x50 && op <= 0x6f: // DW_OP_reg0..DW_OP_reg31
		case op >= 0x70 && op <= 0x8f: // DW_OP_breg0..DW_OP_breg31
			v, ni := sleb128(data, i)
			operands = []int64{v}
			i = ni
		case op == 0x91: // DW_OP_fbreg
			v, ni := sleb128(data, i)
			operands = []int64{v}
			i = ni
		case op == 0x90: // DW_OP_regx
			v, ni := uleb128(data, i)
			operands = []int64{int64(v)}
			i = ni
		case op == 0x92: // DW_OP_bregx
			reg, ni := uleb128(data, i)
			off2, ni2 := sleb128(data, ni)
			operands = []int64{int64(reg), off2}
			i = ni2
		case op == 0x08: // DW_OP_const1u
			if i < len(data) {
				operands = []int64{int64(data[i])}
				i++
			}
		case op == 0x09: // DW_OP_const1s
			if i < len(data) {
				operands = []int64{int64(int8(data[i]))}
				i++
			}
		case op == 0x0a: // DW_OP_const2u
			if i+2 <= len(data) {
				operands = []int64{int64(binary.LittleEndian.Uint16(data[i:]))}
				i += 2
			}
		case op == 0x0c: // DW_OP_const4u
			if i+4 <= len(data) {
				operands = []int64{int64(binary.LittleEndian.Uint32(data[i:]))}
				i += 4
			}
		case op == 0x0e: // DW_OP_const8u
			if i+8 <= len(data) {
				operands = []int64{int64(binary.LittleEndian.Uint64(data[i:]))}
				i += 8
			}
		case op == 0x10: // DW_OP_constu
			v, ni := uleb128(data, i)
			operands = []int64{int64(v)}
			i = ni
		case op == 0x11: // DW_OP_consts
			v, ni := sleb128(data, i)
			operands = []int64{v}
			i = ni
		case op == 0x23: // DW_OP_plus_uconst
			v, ni := uleb128(data, i)
			operands = []int64{int64(v)}
			i = ni
		case op == 0x9c: // DW_OP_call_frame_cfa, no operands
		case op == 0x9f: // DW_OP_stack_value, no operands
		default:
			// Leave operands empty; many ops (dup, drop, and/or/plus,
			// deref, ...) genuinely take none.
		}
		ops = append(ops, value.OpDecl{Op: op, Operands: operands, ByteOffset: off})
	}
	return ops
}

// Loc decodes attr's location expression or location list into its
// LocElem ranges.
//
// For an inline DW_FORM_exprloc value (the common case for function
// and variable locations that don't change across their lifetime),
// this produces one LocElem covering the whole PC range. For a
// location-list offset, the classic (pre-DWARF5) split-range
// .debug_loc format is decoded directly from raw section bytes, since
// debug/dwarf exposes no location-list reader of its own.
func (g *Graph) Loc(attr *value.Attr) ([]*value.LocElem, error) {
	switch val := attr.Field.Val.(type) {
	case []byte:
		ops := decodeExpr(val)
		return []*value.LocElem{value.NewLocElem(g.dw, attr, 0, ^uint64(0), ops)}, nil
	case int64:
		return g.decodeLocList(attr, uint64(val))
	case uint64:
		return g.decodeLocList(attr, val)
	default:
		return nil, wrapErr("loc", fmt.Errorf("attribute is not location-typed (%T)", val))
	}
}

func (g *Graph) decodeLocList(attr *value.Attr, off uint64) ([]*value.LocElem, error) {
	if g.src == nil {
		return nil, wrapErr("loc", fmt.Errorf("no section source attached; call Graph.AttachSource"))
	}
	data, err := g.src.SectionData(".debug_loc")
	if err != nil {
		return nil, wrapErr("loc", err)
	}
	if off >= uint64(len(data)) {
		return nil, wrapErr("loc", fmt.Errorf("location list offset %#x out of range", off))
	}
	var elems []*value.LocElem
	i := int(off)
	for i+16 <= len(data) {
		low := binary.LittleEndian.Uint64(data[i:])
		high := binary.LittleEndian.Uint64(data[i+8:])
		i += 16
		if low == 0 && high == 0 {
			break // end-of-list entry
		}
		if i+2 > len(data) {
			break
		}
		exprLen := int(binary.LittleEndian.Uint16(data[i:]))
		i += 2
		if i+exprLen > len(data) {
			break
		}
		ops := decodeExpr(data[i : i+exprLen])
		i += exprLen
		elems = append(elems, value.NewLocElem(g.dw, attr, low, high, ops))
	}
	return elems, nil
}
