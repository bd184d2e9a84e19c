// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math/big"
	"strings"
)

// OpDecl is a single decoded DW_OP_* operation within a location
// expression.
type OpDecl struct {
	Op       int64
	Operands []int64
	// ByteOffset is this op's offset within its owning location
	// expression, used as a tiebreaker for LocOp identity.
	ByteOffset int
}

func (d OpDecl) String() string {
	name := DomainOp.Render(big.NewInt(d.Op))
	if len(d.Operands) == 0 {
		return name
	}
	parts := make([]string, len(d.Operands))
	for i, o := range d.Operands {
		parts[i] = fmt.Sprintf("%d", o)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// LocElem is one range element of a location list: the address range
// it covers, plus the sequence of ops active over that range.
type LocElem struct {
	base
	Dw       *Dwarf
	Owner    *Attr
	Low, High uint64
	Ops      []OpDecl
}

func NewLocElem(dw *Dwarf, owner *Attr, low, high uint64, ops []OpDecl) *LocElem {
	return &LocElem{Dw: dw, Owner: owner, Low: low, High: high, Ops: ops}
}

func (v *LocElem) Tag() Tag { return TLocElem }

func (v *LocElem) Clone() Value {
	ops := append([]OpDecl(nil), v.Ops...)
	return &LocElem{base: base{v.pos}, Dw: v.Dw, Owner: v.Owner, Low: v.Low, High: v.High, Ops: ops}
}

func (v *LocElem) Show(brief bool) string {
	parts := make([]string, len(v.Ops))
	for i, op := range v.Ops {
		parts[i] = op.String()
	}
	body := strings.Join(parts, "; ")
	if brief {
		return body
	}
	return fmt.Sprintf("LOCLIST_ELEM<[%#x,%#x) %s>", v.Low, v.High, body)
}

func (v *LocElem) compare(o *LocElem) Ordering {
	switch {
	case v.Low != o.Low:
		if v.Low < o.Low {
			return Less
		}
		return Greater
	case v.High != o.High:
		if v.High < o.High {
			return Less
		}
		return Greater
	default:
		return Equal
	}
}

// LocOp is a single op within a LocElem, carrying a back-reference to
// the owning attribute (§3: "single op descriptor + owning
// attribute").
type LocOp struct {
	base
	Dw    *Dwarf
	Owner *Attr
	Decl  OpDecl
}

func NewLocOp(dw *Dwarf, owner *Attr, decl OpDecl) *LocOp {
	return &LocOp{Dw: dw, Owner: owner, Decl: decl}
}

func (v *LocOp) Tag() Tag { return TLocOp }

func (v *LocOp) Clone() Value {
	return &LocOp{base: base{v.pos}, Dw: v.Dw, Owner: v.Owner, Decl: v.Decl}
}

func (v *LocOp) Show(brief bool) string {
	if brief {
		return v.Decl.String()
	}
	return "LOCLIST_OP<" + v.Decl.String() + ">"
}

func (v *LocOp) compare(o *LocOp) Ordering {
	switch {
	case v.Decl.ByteOffset < o.Decl.ByteOffset:
		return Less
	case v.Decl.ByteOffset > o.Decl.ByteOffset:
		return Greater
	default:
		return Equal
	}
}
