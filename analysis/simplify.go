// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import "github.com/aclements/go-dwgrep/lang"

// Simplify performs the engine's peephole rewrites (§4.4 step 3): NOP
// elimination within CAT, and folding an ALT whose every branch is a
// bare NOP down to a single NOP. It runs after slot binding, so it
// only ever discards NOP nodes, which never own slots.
func Simplify(n *lang.Node) *lang.Node {
	for i, c := range n.Children {
		n.Children[i] = Simplify(c)
	}

	switch n.Kind {
	case lang.CAT:
		var kept []*lang.Node
		for _, c := range n.Children {
			if c.Kind == lang.NOP {
				continue
			}
			kept = append(kept, c)
		}
		switch len(kept) {
		case 0:
			return &lang.Node{Kind: lang.NOP}
		case 1:
			return kept[0]
		default:
			n.Children = kept
			return n
		}

	case lang.ALT:
		allNop := true
		for _, c := range n.Children {
			if c.Kind != lang.NOP {
				allNop = false
				break
			}
		}
		if allNop {
			return &lang.Node{Kind: lang.NOP}
		}
		return n

	default:
		return n
	}
}
