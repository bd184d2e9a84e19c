// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis implements stack-effect inference and slot
// allocation (§4.2): a bottom-up walk over a parsed syntax tree that
// proves slot indices never underflow, checks that alternation and
// closure bodies agree on their net stack effect, and annotates each
// node with the concrete slot indices ("a", "b", "dst", ...) its
// operator will read and write.
package analysis

import (
	"github.com/aclements/go-dwgrep/lang"
)

// Analyze runs stack-effect analysis over root, mutating it in place
// with slot bindings, and returns the net number of slots the whole
// tree leaves on the stack (the slot count a scope using root starts
// its valfile with; operators that push past it extend the valfile).
func Analyze(root *lang.Node) (int, error) {
	return analyzeNode(root, 0)
}

func need(depth, n int) error {
	if depth < n {
		return &UnderrunError{Need: n, Have: depth}
	}
	return nil
}

func analyzeNode(n *lang.Node, depth int) (int, error) {
	switch n.Kind {
	case lang.CAT:
		d := depth
		for _, c := range n.Children {
			nd, err := analyzeNode(c, d)
			if err != nil {
				return 0, err
			}
			d = nd
		}
		return d, nil

	case lang.ALT:
		if len(n.Children) == 0 {
			return depth, nil
		}
		first := -1
		for _, c := range n.Children {
			d, err := analyzeNode(c, depth)
			if err != nil {
				return 0, err
			}
			if first == -1 {
				first = d
			} else if d != first {
				return 0, &UnbalancedError{Msg: "alternation branches leave the stack at different depths"}
			}
		}
		return first, nil

	case lang.CLOSE_STAR, lang.CLOSE_PLUS, lang.MAYBE:
		d, err := analyzeNode(n.Children[0], depth)
		if err != nil {
			return 0, err
		}
		if d != depth {
			return 0, &UnbalancedError{Msg: "closure body must have net-zero stack effect"}
		}
		return depth, nil

	case lang.PROTECT:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		if _, err := analyzeNode(n.Children[0], depth); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 1}
		return depth, nil

	case lang.TRANSFORM:
		// n/body (§4.2) opens a fresh n-slot sub-scope seeded from the
		// top n slots, the same isolation CAPTURE gives its body, except
		// the body's output replaces those n slots instead of landing
		// alongside them.
		if err := need(depth, n.N); err != nil {
			return 0, err
		}
		bodyNsz, err := analyzeNode(n.Children[0], n.N)
		if err != nil {
			return 0, err
		}
		nsz := bodyNsz
		if nsz < n.N {
			nsz = n.N
		}
		n.Slots = map[string]int{"src": depth - n.N, "bodyNsz": bodyNsz, "nsz": nsz}
		return depth - n.N + bodyNsz, nil

	case lang.CAPTURE:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		bodyNsz, err := analyzeNode(n.Children[0], 1)
		if err != nil {
			return 0, err
		}
		if bodyNsz < 1 {
			bodyNsz = 1
		}
		n.Slots = map[string]int{"src": depth - 1, "dst": depth, "nsz": bodyNsz}
		return depth + 1, nil

	case lang.FORMAT:
		// Each %(...%) splice is evaluated like a capture body: it runs
		// against the current top of stack in its own sub-scope and its
		// first result's top-of-stack value is what gets rendered into
		// the string, so it's analyzed at depth 1 rather than required
		// to net to zero in the enclosing scope.
		hasSplice := false
		for _, c := range n.Children {
			if c.Kind == lang.STR {
				continue
			}
			hasSplice = true
			bodyNsz, err := analyzeNode(c, 1)
			if err != nil {
				return 0, err
			}
			if bodyNsz < 1 {
				bodyNsz = 1
			}
			if c.Slots == nil {
				c.Slots = map[string]int{}
			}
			c.Slots["nsz"] = bodyNsz
		}
		n.Slots = map[string]int{"dst": depth}
		if hasSplice {
			if err := need(depth, 1); err != nil {
				return 0, err
			}
			n.Slots["a"] = depth - 1
		}
		return depth + 1, nil

	case lang.ASSERT:
		if _, err := analyzeNode(n.Children[0], depth); err != nil {
			return 0, err
		}
		return depth, nil

	case lang.NOP, lang.STR:
		return depth, nil

	case lang.CONST, lang.EMPTY_LIST:
		n.Slots = map[string]int{"dst": depth}
		return depth + 1, nil

	case lang.SHF_DUP:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 1, "dst": depth}
		return depth + 1, nil

	case lang.SHF_SWAP:
		if err := need(depth, 2); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 2, "b": depth - 1}
		return depth, nil

	case lang.SHF_OVER:
		if err := need(depth, 2); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 2, "dst": depth}
		return depth + 1, nil

	case lang.SHF_ROT:
		if err := need(depth, 3); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 3, "b": depth - 2, "src": depth - 1}
		return depth, nil

	case lang.SHF_DROP:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"dst": depth - 1}
		return depth - 1, nil

	case lang.F_ATVAL, lang.F_OFFSET, lang.F_CHILD, lang.F_PARENT, lang.F_PREV,
		lang.F_NEXT, lang.F_TAG, lang.F_FORM, lang.F_NAME, lang.F_VALUE,
		lang.F_TYPE, lang.F_POS, lang.F_COUNT, lang.F_EACH:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 1, "dst": depth - 1}
		return depth, nil

	case lang.F_ADD, lang.F_SUB, lang.F_MUL, lang.F_DIV, lang.F_MOD:
		// Binary, pop-2/push-1, the same slot shape the comparison
		// predicates use (§4.3's "arithmetic" operator set, §7's
		// DivisionByZero).
		if err := need(depth, 2); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 2, "b": depth - 1, "dst": depth - 2}
		return depth - 1, nil

	case lang.SEL_UNIVERSE, lang.SEL_SECTION, lang.SEL_UNIT, lang.SEL_WINFO:
		n.Slots = map[string]int{"dst": depth}
		return depth + 1, nil

	case lang.PRED_NOT:
		return analyzeNode(n.Children[0], depth)

	case lang.PRED_AND, lang.PRED_OR:
		for _, c := range n.Children {
			if _, err := analyzeNode(c, depth); err != nil {
				return 0, err
			}
		}
		return depth, nil

	case lang.PRED_EQ, lang.PRED_NE, lang.PRED_LT, lang.PRED_GT, lang.PRED_LE, lang.PRED_GE:
		if err := need(depth, 2); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 2, "b": depth - 1}
		return depth, nil

	case lang.PRED_MATCH, lang.PRED_FIND, lang.PRED_AT, lang.PRED_TAG, lang.PRED_ROOT, lang.PRED_EMPTY:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 1}
		return depth, nil

	case lang.PRED_SUBX_ANY:
		if err := need(depth, 1); err != nil {
			return 0, err
		}
		if _, err := analyzeNode(n.Children[0], depth); err != nil {
			return 0, err
		}
		n.Slots = map[string]int{"a": depth - 1}
		return depth, nil

	default:
		return depth, nil
	}
}
