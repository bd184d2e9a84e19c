// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConcreteScenarios(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`DW_TAG_compile_unit`, `(CONST<DW_TAG_compile_unit>)`},
		{`17`, `(CONST<17>)`},
		{`0x17`, `(CONST<0x17>)`},
		{`017`, `(CONST<017>)`},
		{`"r\aw"`, `(FORMAT (STR<r\aw>))`},
		{`r"r\aw"`, `(FORMAT (STR<r\\aw>))`},
		{`child*`, `(CLOSE_STAR (F_CHILD))`},
		{`child+`, `(CLOSE_PLUS (F_CHILD))`},
		{`child?`, `(MAYBE (F_CHILD))`},
		{`dup, over, -child`, `(ALT (SHF_DUP) (SHF_OVER) (PROTECT (F_CHILD)))`},
		{`add`, `(F_ADD)`},
		{`sub`, `(F_SUB)`},
		{`mul`, `(F_MUL)`},
		{`div`, `(F_DIV)`},
		{`mod`, `(F_MOD)`},
		{`-div`, `(PROTECT (F_DIV))`},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, n.String())
		})
	}
}

// TestParseWhitespaceDisambiguatesPostfix exercises the case that
// motivated token.spaceBefore: "winfo ?root" is a selector followed
// by a fresh assertion term, not a postfix "?" applied to "winfo".
func TestParseWhitespaceDisambiguatesPostfix(t *testing.T) {
	n, err := Parse(`winfo ?root`)
	require.NoError(t, err)
	assert.Equal(t, `(CAT (SEL_WINFO) (ASSERT (PRED_ROOT)))`, n.String())
}

func TestParseAdjacentQuestionIsPostfix(t *testing.T) {
	n, err := Parse(`winfo?`)
	require.NoError(t, err)
	assert.Equal(t, `(MAYBE (SEL_WINFO))`, n.String())
}

func TestParseAltWithEmptyBranch(t *testing.T) {
	n, err := Parse(`winfo (,drop 1)`)
	require.NoError(t, err)
	assert.Equal(t, `(CAT (SEL_WINFO) (ALT (NOP) (CAT (SHF_DROP) (CONST<1>))))`, n.String())
}

func TestParseTransform(t *testing.T) {
	n, err := Parse(`2/swap`)
	require.NoError(t, err)
	assert.Equal(t, TRANSFORM, n.Kind)
	assert.Equal(t, 2, n.N)
	assert.Equal(t, SHF_SWAP, n.Children[0].Kind)
}

func TestParseIsDeterministic(t *testing.T) {
	// Parsing the same source twice yields the same dump form. There
	// is no unparse-to-source step, so this does not check a
	// parse/print round trip.
	srcs := []string{
		`child*`,
		`dup, over, -child`,
		`winfo ?root`,
		`DW_TAG_compile_unit`,
	}
	for _, src := range srcs {
		n1, err := Parse(src)
		require.NoError(t, err)
		n2, err := Parse(src)
		require.NoError(t, err)
		assert.Equal(t, n1.String(), n2.String(), "parsing %q twice should be deterministic", src)
	}
}

func TestParsePredicateAtAndTag(t *testing.T) {
	n, err := Parse(`?at(DW_AT_name)`)
	require.NoError(t, err)
	assert.Equal(t, `(ASSERT (PRED_AT<DW_AT_name>))`, n.String())

	n, err = Parse(`!tag(17)`)
	require.NoError(t, err)
	assert.Equal(t, `(ASSERT (PRED_NOT (PRED_TAG<17>)))`, n.String())
}

func TestParseMatchPredicate(t *testing.T) {
	n, err := Parse(`?match "^main$"`)
	require.NoError(t, err)
	assert.Equal(t, `(ASSERT (PRED_MATCH<^main$>))`, n.String())
}

func TestParseSubxAny(t *testing.T) {
	n, err := Parse(`?(child)`)
	require.NoError(t, err)
	assert.Equal(t, `(ASSERT (PRED_SUBX_ANY (F_CHILD)))`, n.String())
}

func TestParseEmptyGroupIsNop(t *testing.T) {
	n, err := Parse(`()`)
	require.NoError(t, err)
	assert.Equal(t, `(NOP)`, n.String())
}

func TestParseErrorOnGarbage(t *testing.T) {
	_, err := Parse(`)`)
	assert.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
