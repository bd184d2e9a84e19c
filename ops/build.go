// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"
	"math/big"

	"github.com/aclements/go-dwgrep/dwgraph"
	"github.com/aclements/go-dwgrep/lang"
	"github.com/aclements/go-dwgrep/value"
)

// Build compiles an analyzed, simplified syntax tree into an operator
// DAG (§4.3) rooted at a fresh origin with nsz statically-allocated
// slots.
func Build(tree *lang.Node, g *dwgraph.Graph, nsz int) Op {
	return buildNode(tree, newOrigin(nsz), g)
}

// resolveIntArg resolves a PRED_AT/PRED_TAG/F_ATVAL argument: a known
// DWARF constant identifier, or a bare integer literal in the same
// radix CONST accepts.
func resolveIntArg(text string) (int64, error) {
	if _, v, ok := value.LookupConstant(text); ok {
		return v, nil
	}
	n := new(big.Int)
	base, body := 10, text
	if len(text) > 1 && text[0] == '0' {
		if text[1] == 'x' || text[1] == 'X' {
			base, body = 16, text[2:]
		} else {
			base = 8
		}
	}
	if _, ok := n.SetString(body, base); !ok {
		return 0, fmt.Errorf("unresolved constant or number %q", text)
	}
	return n.Int64(), nil
}

func buildNode(n *lang.Node, upstream Op, g *dwgraph.Graph) Op {
	switch n.Kind {
	case lang.CAT:
		cur := upstream
		for _, c := range n.Children {
			cur = buildNode(c, cur, g)
		}
		return cur

	case lang.NOP, lang.STR:
		return &nop{upstream: upstream}

	case lang.ALT:
		branches := make([]func(Op) Op, len(n.Children))
		for i, c := range n.Children {
			c := c
			branches[i] = func(u Op) Op { return buildNode(c, u, g) }
		}
		return newAltOp(upstream, branches)

	case lang.CAPTURE:
		body := n.Children[0]
		buildBody := func(u Op) Op { return buildNode(body, u, g) }
		return newCaptureOp(upstream, buildBody, n.Slots["src"], n.Slots["dst"], n.Slots["nsz"])

	case lang.TRANSFORM:
		body := n.Children[0]
		buildBody := func(u Op) Op { return buildNode(body, u, g) }
		return newTransformOp(upstream, buildBody, n.Slots["src"], n.N, n.Slots["bodyNsz"], n.Slots["nsz"])

	case lang.CLOSE_STAR, lang.CLOSE_PLUS:
		body := n.Children[0]
		buildBody := func(u Op) Op { return buildNode(body, u, g) }
		return newClosureOp(upstream, buildBody, n.Kind == lang.CLOSE_PLUS)

	case lang.MAYBE:
		body := n.Children[0]
		buildBody := func(u Op) Op { return buildNode(body, u, g) }
		return newMaybeOp(upstream, buildBody)

	case lang.PROTECT:
		body := n.Children[0]
		buildBody := func(u Op) Op { return buildNode(body, u, g) }
		return newProtectOp(upstream, n.Slots["a"], buildBody)

	case lang.FORMAT:
		pieces := make([]formatPiece, len(n.Children))
		for i, c := range n.Children {
			if c.Kind == lang.STR {
				pieces[i] = formatPiece{literal: c.Text}
				continue
			}
			c := c
			pieces[i] = formatPiece{
				isSplice: true,
				bodyNsz:  c.Slots["nsz"],
				buildBody: func(u Op) Op {
					return buildNode(c, u, g)
				},
			}
		}
		src := n.Slots["a"]
		return newFormatOp(upstream, pieces, src, n.Slots["dst"])

	case lang.ASSERT:
		pred, err := buildPredicate(n.Children[0], g)
		if err != nil {
			return &errOp{err: err}
		}
		return newAssertOp(upstream, pred)

	case lang.CONST:
		return &constOp{upstream: upstream, val: n.ConstVal, domain: n.ConstDomain, dst: n.Slots["dst"]}

	case lang.EMPTY_LIST:
		return &emptyListOp{upstream: upstream, dst: n.Slots["dst"]}

	case lang.SHF_DUP:
		return &dupOp{upstream: upstream, a: n.Slots["a"], dst: n.Slots["dst"]}
	case lang.SHF_SWAP:
		return &swapOp{upstream: upstream, a: n.Slots["a"], b: n.Slots["b"]}
	case lang.SHF_OVER:
		return &overOp{upstream: upstream, a: n.Slots["a"], dst: n.Slots["dst"]}
	case lang.SHF_ROT:
		return &rotOp{upstream: upstream, a: n.Slots["a"], b: n.Slots["b"], src: n.Slots["src"]}
	case lang.SHF_DROP:
		return &dropOp{upstream: upstream, dst: n.Slots["dst"]}

	case lang.F_ATVAL:
		name, err := resolveIntArg(n.Text)
		if err != nil {
			return &errOp{err: err}
		}
		return &atvalOp{upstream: upstream, slot: n.Slots["dst"], name: name, g: g}

	case lang.F_OFFSET, lang.F_CHILD, lang.F_PARENT, lang.F_PREV, lang.F_NEXT,
		lang.F_TAG, lang.F_FORM, lang.F_NAME, lang.F_VALUE, lang.F_TYPE,
		lang.F_POS, lang.F_COUNT, lang.F_EACH:
		return newAccessor(n.Kind.String(), upstream, n.Slots["dst"], g)

	case lang.F_ADD, lang.F_SUB, lang.F_MUL, lang.F_DIV, lang.F_MOD:
		return newArithOp(n.Kind.String(), upstream, n.Slots["a"], n.Slots["b"], n.Slots["dst"])

	case lang.SEL_UNIVERSE, lang.SEL_WINFO:
		return newSelOp(upstream, n.Slots["dst"], g, true)
	case lang.SEL_SECTION, lang.SEL_UNIT:
		return newSelOp(upstream, n.Slots["dst"], g, false)

	default:
		return &errOp{err: fmt.Errorf("cannot build operator for %s", n.Kind)}
	}
}

// buildPredicate compiles a PRED_* node into a Predicate (§4.3:
// assertions only ever appear wrapped in ASSERT).
func buildPredicate(n *lang.Node, g *dwgraph.Graph) (Predicate, error) {
	switch n.Kind {
	case lang.PRED_NOT:
		p, err := buildPredicate(n.Children[0], g)
		if err != nil {
			return nil, err
		}
		return &notPred{p: p}, nil

	case lang.PRED_AND, lang.PRED_OR:
		ps := make([]Predicate, len(n.Children))
		for i, c := range n.Children {
			p, err := buildPredicate(c, g)
			if err != nil {
				return nil, err
			}
			ps[i] = p
		}
		if n.Kind == lang.PRED_AND {
			return &andPred{ps: ps}, nil
		}
		return &orPred{ps: ps}, nil

	case lang.PRED_EQ:
		return newEqPred(n.Slots["a"], n.Slots["b"]), nil
	case lang.PRED_NE:
		return newNePred(n.Slots["a"], n.Slots["b"]), nil
	case lang.PRED_LT:
		return newLtPred(n.Slots["a"], n.Slots["b"]), nil
	case lang.PRED_GT:
		return newGtPred(n.Slots["a"], n.Slots["b"]), nil
	case lang.PRED_LE:
		return newLePred(n.Slots["a"], n.Slots["b"]), nil
	case lang.PRED_GE:
		return newGePred(n.Slots["a"], n.Slots["b"]), nil

	case lang.PRED_MATCH:
		re, err := compileMatchPattern(n.Text)
		if err != nil {
			return nil, err
		}
		return &matchPred{slot: n.Slots["a"], re: re}, nil
	case lang.PRED_FIND:
		return &findPred{slot: n.Slots["a"], sub: n.Text}, nil

	case lang.PRED_AT:
		name, err := resolveIntArg(n.Text)
		if err != nil {
			return nil, err
		}
		return &atPred{slot: n.Slots["a"], name: name}, nil
	case lang.PRED_TAG:
		code, err := resolveIntArg(n.Text)
		if err != nil {
			return nil, err
		}
		return &tagPred{slot: n.Slots["a"], code: code}, nil

	case lang.PRED_ROOT:
		return &rootPred{slot: n.Slots["a"], g: g}, nil
	case lang.PRED_EMPTY:
		return &emptyPred{slot: n.Slots["a"]}, nil

	case lang.PRED_SUBX_ANY:
		body := n.Children[0]
		return &subxAnyPred{buildBody: func(u Op) Op { return buildNode(body, u, g) }}, nil

	default:
		return nil, fmt.Errorf("cannot build predicate for %s", n.Kind)
	}
}

// emptyListOp implements the [] literal.
type emptyListOp struct {
	upstream Op
	dst      int
}

func (o *emptyListOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	vf.Set(o.dst, value.NewSeq(nil))
	return vf, nil
}

// errOp surfaces a build-time error (an unresolved constant, an
// unsupported pattern) the first time it's pulled.
type errOp struct{ err error }

func (o *errOp) Next() (*value.Valfile, error) { return nil, o.err }
