// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lang implements the query language's lexer, parser, and
// syntax tree (§4.1).
package lang

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/aclements/go-dwgrep/value"
)

// Kind identifies a syntax tree node's role.
type Kind int

const (
	CAT Kind = iota
	ALT
	CAPTURE
	TRANSFORM
	CLOSE_STAR
	CLOSE_PLUS
	MAYBE
	PROTECT
	FORMAT
	ASSERT
	NOP
	CONST
	STR
	EMPTY_LIST

	SHF_DUP
	SHF_SWAP
	SHF_OVER
	SHF_ROT
	SHF_DROP

	F_ATVAL
	F_OFFSET
	F_CHILD
	F_PARENT
	F_PREV
	F_NEXT
	F_TAG
	F_FORM
	F_NAME
	F_VALUE
	F_TYPE
	F_POS
	F_COUNT
	F_EACH
	F_ADD
	F_SUB
	F_MUL
	F_DIV
	F_MOD

	SEL_UNIVERSE
	SEL_SECTION
	SEL_UNIT
	SEL_WINFO

	PRED_NOT
	PRED_AND
	PRED_OR
	PRED_EQ
	PRED_NE
	PRED_LT
	PRED_GT
	PRED_LE
	PRED_GE
	PRED_MATCH
	PRED_FIND
	PRED_AT
	PRED_TAG
	PRED_ROOT
	PRED_EMPTY
	PRED_SUBX_ANY
)

var kindNames = map[Kind]string{
	CAT: "CAT", ALT: "ALT", CAPTURE: "CAPTURE", TRANSFORM: "TRANSFORM",
	CLOSE_STAR: "CLOSE_STAR", CLOSE_PLUS: "CLOSE_PLUS", MAYBE: "MAYBE",
	PROTECT: "PROTECT", FORMAT: "FORMAT", ASSERT: "ASSERT", NOP: "NOP",
	CONST: "CONST", STR: "STR", EMPTY_LIST: "EMPTY_LIST",
	SHF_DUP: "SHF_DUP", SHF_SWAP: "SHF_SWAP", SHF_OVER: "SHF_OVER",
	SHF_ROT: "SHF_ROT", SHF_DROP: "SHF_DROP",
	F_ATVAL: "F_ATVAL", F_OFFSET: "F_OFFSET", F_CHILD: "F_CHILD",
	F_PARENT: "F_PARENT", F_PREV: "F_PREV", F_NEXT: "F_NEXT",
	F_TAG: "F_TAG", F_FORM: "F_FORM", F_NAME: "F_NAME", F_VALUE: "F_VALUE",
	F_TYPE: "F_TYPE", F_POS: "F_POS", F_COUNT: "F_COUNT", F_EACH: "F_EACH",
	F_ADD: "F_ADD", F_SUB: "F_SUB", F_MUL: "F_MUL", F_DIV: "F_DIV", F_MOD: "F_MOD",
	SEL_UNIVERSE: "SEL_UNIVERSE", SEL_SECTION: "SEL_SECTION",
	SEL_UNIT: "SEL_UNIT", SEL_WINFO: "SEL_WINFO",
	PRED_NOT: "PRED_NOT", PRED_AND: "PRED_AND", PRED_OR: "PRED_OR",
	PRED_EQ: "PRED_EQ", PRED_NE: "PRED_NE", PRED_LT: "PRED_LT",
	PRED_GT: "PRED_GT", PRED_LE: "PRED_LE", PRED_GE: "PRED_GE",
	PRED_MATCH: "PRED_MATCH", PRED_FIND: "PRED_FIND", PRED_AT: "PRED_AT",
	PRED_TAG: "PRED_TAG", PRED_ROOT: "PRED_ROOT", PRED_EMPTY: "PRED_EMPTY",
	PRED_SUBX_ANY: "PRED_SUBX_ANY",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Node is one syntax tree node. Only the fields relevant to its Kind
// are populated; see the per-Kind comments below.
type Node struct {
	Kind     Kind
	Children []*Node

	// Text is CONST's original source text (preserving radix, e.g.
	// "0x17") and STR's decoded content. It's also the argument text
	// for F_ATVAL, PRED_AT, PRED_TAG, PRED_MATCH, and PRED_FIND.
	Text string

	// ConstVal and ConstDomain hold CONST's decoded value.
	ConstVal    *big.Int
	ConstDomain *value.Domain

	// N is TRANSFORM's count.
	N int

	// Slots holds the slot bindings the analysis pass assigns to this
	// node, keyed by role name ("a", "src", "dst", ...). Nil before
	// analysis.
	Slots map[string]int
}

var slotOrder = []string{"a", "b", "src", "dst"}

// String renders the fully parenthesized Lisp-like dump used by
// tests and diagnostics (§6).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if payload := n.payload(); payload != "" {
		b.WriteByte('<')
		b.WriteString(payload)
		b.WriteByte('>')
	}
	if len(n.Slots) > 0 {
		b.WriteString(" [")
		for _, k := range slotOrder {
			if v, ok := n.Slots[k]; ok {
				fmt.Fprintf(b, "%s=%d;", k, v)
			}
		}
		b.WriteByte(']')
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

func (n *Node) payload() string {
	switch n.Kind {
	case CONST:
		return n.Text
	case STR:
		return quoteForDump(n.Text)
	case F_ATVAL, PRED_AT, PRED_TAG, PRED_MATCH, PRED_FIND:
		return n.Text
	default:
		return ""
	}
}

// quoteForDump renders s the way the tree dump shows string payloads:
// Go's escaping for unprintable/backslash/quote characters, without
// surrounding quotes (see the two STR examples in §8).
func quoteForDump(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// leaf returns a childless node of kind k.
func leaf(k Kind) *Node { return &Node{Kind: k} }
