// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lang

import (
	"math/big"

	"github.com/aclements/go-dwgrep/value"
)

var shuffleWords = map[string]Kind{
	"dup": SHF_DUP, "swap": SHF_SWAP, "over": SHF_OVER, "rot": SHF_ROT, "drop": SHF_DROP,
}

var accessorWords = map[string]Kind{
	"child": F_CHILD, "parent": F_PARENT, "prev": F_PREV, "next": F_NEXT,
	"tag": F_TAG, "form": F_FORM, "name": F_NAME, "value": F_VALUE,
	"type": F_TYPE, "pos": F_POS, "count": F_COUNT, "each": F_EACH,
	"offset": F_OFFSET,
}

var arithWords = map[string]Kind{
	"add": F_ADD, "sub": F_SUB, "mul": F_MUL, "div": F_DIV, "mod": F_MOD,
}

var selectorWords = map[string]Kind{
	"universe": SEL_UNIVERSE, "section": SEL_SECTION, "unit": SEL_UNIT, "winfo": SEL_WINFO,
}

var predicateWords = map[string]Kind{
	"root": PRED_ROOT, "empty": PRED_EMPTY,
	"eq": PRED_EQ, "ne": PRED_NE, "lt": PRED_LT, "gt": PRED_GT, "le": PRED_LE, "ge": PRED_GE,
	"match": PRED_MATCH, "find": PRED_FIND,
	"at": PRED_AT, "tag": PRED_TAG,
}

// Parse lexes and parses src into a syntax tree (§4.1).
func Parse(src string) (*Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tEOF {
		return nil, &ParseError{Pos: p.tok.pos, Expected: "end of input", Found: p.tok.text}
	}
	return n, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokKind, what string) error {
	if p.tok.kind != k {
		return &ParseError{Pos: p.tok.pos, Expected: what, Found: tokDesc(p.tok)}
	}
	return p.advance()
}

func tokDesc(t token) string {
	if t.kind == tEOF {
		return "end of input"
	}
	if t.text != "" {
		return t.text
	}
	return "token"
}

// parseAlt parses a comma-separated list of CAT terms, collapsing a
// singleton list to its sole child and substituting NOP for empty
// segments (§4.1: "`a,` means `a` or `NOP`").
func (p *parser) parseAlt() (*Node, error) {
	var branches []*Node
	first, err := p.parseCatOrNop()
	if err != nil {
		return nil, err
	}
	branches = append(branches, first)
	for p.tok.kind == tComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseCatOrNop()
		if err != nil {
			return nil, err
		}
		branches = append(branches, n)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return &Node{Kind: ALT, Children: branches}, nil
}

func (p *parser) parseCatOrNop() (*Node, error) {
	if p.atCatEnd() {
		return leaf(NOP), nil
	}
	return p.parseCat()
}

func (p *parser) atCatEnd() bool {
	switch p.tok.kind {
	case tEOF, tComma, tRParen, tRBrack:
		return true
	}
	return false
}

// parseCat parses a sequence of juxtaposed terms, collapsing a
// singleton sequence to its sole child.
func (p *parser) parseCat() (*Node, error) {
	var terms []*Node
	for !p.atCatEnd() {
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, n)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &Node{Kind: CAT, Children: terms}, nil
}

func (p *parser) parseUnary() (*Node, error) {
	switch p.tok.kind {
	case tMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: PROTECT, Children: []*Node{body}}, nil
	case tQuestion, tBang:
		negate := p.tok.kind == tBang
		if err := p.advance(); err != nil {
			return nil, err
		}
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		if negate {
			pred = &Node{Kind: PRED_NOT, Children: []*Node{pred}}
		}
		return &Node{Kind: ASSERT, Children: []*Node{pred}}, nil
	}
	atom, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tSlash && atom.Kind == CONST && atom.ConstVal.IsInt64() {
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: TRANSFORM, N: int(atom.ConstVal.Int64()), Children: []*Node{body}}, nil
	}
	return atom, nil
}

func (p *parser) parsePostfix() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		if p.tok.spaceBefore {
			return atom, nil
		}
		switch p.tok.kind {
		case tStar:
			atom = &Node{Kind: CLOSE_STAR, Children: []*Node{atom}}
		case tPlus:
			atom = &Node{Kind: CLOSE_PLUS, Children: []*Node{atom}}
		case tQuestion:
			atom = &Node{Kind: MAYBE, Children: []*Node{atom}}
		default:
			return atom, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parsePredicate() (*Node, error) {
	if p.tok.kind == tLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return &Node{Kind: PRED_SUBX_ANY, Children: []*Node{sub}}, nil
	}
	if p.tok.kind != tIdent {
		return nil, &ParseError{Pos: p.tok.pos, Expected: "predicate", Found: tokDesc(p.tok)}
	}
	word := p.tok.text
	kind, ok := predicateWords[word]
	if !ok {
		return nil, &ParseError{Pos: p.tok.pos, Expected: "predicate name", Found: word}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch kind {
	case PRED_MATCH, PRED_FIND:
		if p.tok.kind != tString {
			return nil, &ParseError{Pos: p.tok.pos, Expected: "string pattern", Found: tokDesc(p.tok)}
		}
		pattern := flattenLiteralSegs(p.tok.strSegs)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: kind, Text: pattern}, nil
	case PRED_AT, PRED_TAG:
		if err := p.expect(tLParen, "("); err != nil {
			return nil, err
		}
		if p.tok.kind != tIdent && p.tok.kind != tNumber {
			return nil, &ParseError{Pos: p.tok.pos, Expected: "argument", Found: tokDesc(p.tok)}
		}
		arg := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return &Node{Kind: kind, Text: arg}, nil
	default:
		return leaf(kind), nil
	}
}

func flattenLiteralSegs(segs []stringSeg) string {
	out := ""
	for _, s := range segs {
		if !s.isSplice {
			out += s.text
		}
	}
	return out
}

func (p *parser) parseAtom() (*Node, error) {
	switch p.tok.kind {
	case tNumber:
		text := p.tok.text
		n := new(big.Int)
		base := 10
		if len(text) > 1 && text[0] == '0' {
			if text[1] == 'x' || text[1] == 'X' {
				base = 16
				text = text[2:]
			} else {
				base = 8
			}
		}
		if _, ok := n.SetString(text, base); !ok {
			return nil, &ParseError{Pos: p.tok.pos, Expected: "number", Found: p.tok.text}
		}
		orig := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: CONST, Text: orig, ConstVal: n, ConstDomain: value.DomainNone}, nil

	case tString:
		return p.buildFormat(p.tok.strSegs)

	case tLBrack:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tRBrack {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return leaf(EMPTY_LIST), nil
		}
		body, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tRBrack, "]"); err != nil {
			return nil, err
		}
		return &Node{Kind: CAPTURE, Children: []*Node{body}}, nil

	case tLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tRParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return leaf(NOP), nil
		}
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tIdent:
		return p.parseIdentAtom()

	default:
		return nil, &ParseError{Pos: p.tok.pos, Expected: "expression", Found: tokDesc(p.tok)}
	}
}

func (p *parser) buildFormat(segs []stringSeg) (*Node, error) {
	var children []*Node
	for _, s := range segs {
		if !s.isSplice {
			children = append(children, &Node{Kind: STR, Text: s.text})
			continue
		}
		if s.text == "" {
			children = append(children, leaf(NOP))
			continue
		}
		sub, err := Parse(s.text)
		if err != nil {
			return nil, err
		}
		children = append(children, sub)
	}
	if len(children) == 0 {
		children = []*Node{{Kind: STR, Text: ""}}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Node{Kind: FORMAT, Children: children}, nil
}

func (p *parser) parseIdentAtom() (*Node, error) {
	word := p.tok.text
	pos := p.tok.pos

	if kind, ok := shuffleWords[word]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return leaf(kind), nil
	}
	if word == "atval" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tIdent {
			return nil, &ParseError{Pos: p.tok.pos, Expected: "attribute name", Found: tokDesc(p.tok)}
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: F_ATVAL, Text: name}, nil
	}
	if kind, ok := accessorWords[word]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return leaf(kind), nil
	}
	if kind, ok := arithWords[word]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return leaf(kind), nil
	}
	if kind, ok := selectorWords[word]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return leaf(kind), nil
	}
	if dom, n, ok := value.LookupConstant(word); ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: CONST, Text: word, ConstVal: big.NewInt(n), ConstDomain: dom}, nil
	}
	return nil, &ParseError{Pos: pos, Expected: "identifier", Found: word}
}
