// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-dwgrep/lang"
)

func mustParse(t *testing.T, src string) *lang.Node {
	t.Helper()
	n, err := lang.Parse(src)
	require.NoError(t, err)
	return n
}

// TestAnalyzeSelectorAssert exercises "winfo ?root": a selector
// followed by an assertion term, each annotated with its own slot.
func TestAnalyzeSelectorAssert(t *testing.T) {
	n := mustParse(t, `winfo ?root`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 1, nsz)
	assert.Equal(t, `(CAT (SEL_WINFO [dst=0;]) (ASSERT (PRED_ROOT [a=0;])))`, n.String())
}

// TestAnalyzeAlternationUnbalanced exercises "winfo (,drop)": one
// branch leaves the stack where it found it (NOP), the other pops one
// slot (drop), so the two branches disagree on net stack effect.
func TestAnalyzeAlternationUnbalanced(t *testing.T) {
	n := mustParse(t, `winfo (,drop)`)
	_, err := Analyze(n)
	require.Error(t, err)
	var ue *UnbalancedError
	assert.ErrorAs(t, err, &ue)
}

// TestAnalyzeAlternationBalanced exercises "winfo (,drop 1)": the
// second branch drops the selector's result and pushes a fresh
// constant, netting to the same depth as the empty first branch.
func TestAnalyzeAlternationBalanced(t *testing.T) {
	n := mustParse(t, `winfo (,drop 1)`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 1, nsz)
	assert.Equal(t,
		`(CAT (SEL_WINFO [dst=0;]) (ALT (NOP) (CAT (SHF_DROP [dst=0;]) (CONST<1> [dst=0;]))))`,
		n.String())
}

func TestAnalyzeUnderrunOnBareDrop(t *testing.T) {
	n := mustParse(t, `drop`)
	_, err := Analyze(n)
	require.Error(t, err)
	var ue *UnderrunError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 1, ue.Need)
	assert.Equal(t, 0, ue.Have)
}

func TestAnalyzeUnderrunOnSwapWithOneSlot(t *testing.T) {
	n := mustParse(t, `1 swap`)
	_, err := Analyze(n)
	require.Error(t, err)
	var ue *UnderrunError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 2, ue.Need)
	assert.Equal(t, 1, ue.Have)
}

func TestAnalyzeClosureBodyMustNetZero(t *testing.T) {
	n := mustParse(t, `1 (dup)*`)
	_, err := Analyze(n)
	require.Error(t, err)
	var ue *UnbalancedError
	assert.ErrorAs(t, err, &ue)
}

func TestAnalyzeCaptureOwnSubScope(t *testing.T) {
	n := mustParse(t, `1 [child]`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 2, nsz)

	capture := n.Children[1]
	require.Equal(t, lang.CAPTURE, capture.Kind)
	assert.Equal(t, 0, capture.Slots["src"])
	assert.Equal(t, 1, capture.Slots["dst"])
}

func TestAnalyzeShuffleChain(t *testing.T) {
	n := mustParse(t, `1 2 swap dup`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 3, nsz)
}

// TestAnalyzeArithBinaryShape exercises "1 2 add": a pop-2/push-1
// operator, the same slot shape as the comparison predicates plus a
// dst, netting the stack down by one.
func TestAnalyzeArithBinaryShape(t *testing.T) {
	n := mustParse(t, `1 2 add`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 1, nsz)

	add := n.Children[2]
	require.Equal(t, lang.F_ADD, add.Kind)
	assert.Equal(t, 0, add.Slots["a"])
	assert.Equal(t, 1, add.Slots["b"])
	assert.Equal(t, 0, add.Slots["dst"])
}

func TestAnalyzeUnderrunOnBareAdd(t *testing.T) {
	n := mustParse(t, `1 add`)
	_, err := Analyze(n)
	require.Error(t, err)
	var ue *UnderrunError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 2, ue.Need)
	assert.Equal(t, 1, ue.Have)
}

// TestAnalyzeTransformOwnSubScope exercises "1 2 2/swap": the body
// runs in its own 2-slot sub-scope seeded from the top 2 slots, not
// the enclosing scope swap would otherwise see (which would be a
// silent no-op indistinguishable from bare "swap").
func TestAnalyzeTransformOwnSubScope(t *testing.T) {
	n := mustParse(t, `1 2 2/swap`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 2, nsz)

	xform := n.Children[2]
	require.Equal(t, lang.TRANSFORM, xform.Kind)
	assert.Equal(t, 2, xform.N)
	assert.Equal(t, 0, xform.Slots["src"])
	assert.Equal(t, 2, xform.Slots["bodyNsz"])

	swap := xform.Children[0]
	require.Equal(t, lang.SHF_SWAP, swap.Kind)
	// The body's own slots are relative to its fresh sub-scope (0, 1),
	// not the enclosing scope's (0, 1 happen to coincide here, but the
	// body was analyzed starting at depth n.N, not the enclosing depth).
	assert.Equal(t, 0, swap.Slots["a"])
	assert.Equal(t, 1, swap.Slots["b"])
}

// TestAnalyzeTransformNarrowsStack exercises "1 2 2/drop": the body
// drops one of its two input slots, so the transform nets the
// enclosing stack down from 2 slots to 1, not back to 2.
func TestAnalyzeTransformNarrowsStack(t *testing.T) {
	n := mustParse(t, `1 2 2/drop`)
	nsz, err := Analyze(n)
	require.NoError(t, err)
	assert.Equal(t, 1, nsz)

	xform := n.Children[2]
	assert.Equal(t, 1, xform.Slots["bodyNsz"])
	assert.Equal(t, 2, xform.Slots["nsz"])
}
