// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-dwgrep/value"
)

func intAt(t *testing.T, v *value.Valfile, i int) int64 {
	t.Helper()
	iv, ok := v.At(i).(*value.Int)
	require.True(t, ok, "slot %d is not an *value.Int", i)
	return iv.N.Int64()
}

func drainAll(t *testing.T, op Op) []*value.Valfile {
	t.Helper()
	var out []*value.Valfile
	for {
		v, err := op.Next()
		require.NoError(t, err)
		if v == nil {
			return out
		}
		out = append(out, v)
	}
}

// TestAltOpRunsEachBranchToExhaustion builds a dup branch and a const
// branch over a single input and checks both fire, in order.
func TestAltOpRunsEachBranchToExhaustion(t *testing.T) {
	up := &single{vf: vf(value.NewInt(1))}
	branches := []func(Op) Op{
		func(in Op) Op { return &dupOp{upstream: in, a: 0, dst: 0} }, // overwrite with itself: 1
		func(in Op) Op { return &constOp{upstream: in, val: big.NewInt(9), domain: value.DomainNone, dst: 0} },
	}
	op := newAltOp(up, branches)
	results := drainAll(t, op)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), intAt(t, results[0], 0))
	assert.Equal(t, int64(9), intAt(t, results[1], 0))
}

// TestMaybeOpFallsBackWhenBodyEmpty exercises body? when body
// produces nothing: the original input passes through unchanged.
func TestMaybeOpFallsBackWhenBodyEmpty(t *testing.T) {
	up := &single{vf: vf(value.NewInt(3))}
	buildBody := func(in Op) Op {
		return newAssertOp(in, &alwaysFail{})
	}
	op := newMaybeOp(up, buildBody)
	results := drainAll(t, op)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), intAt(t, results[0], 0))
}

// TestMaybeOpPassesThroughBodyOutputWhenNonEmpty checks that a
// satisfied body suppresses the fallback.
func TestMaybeOpPassesThroughBodyOutputWhenNonEmpty(t *testing.T) {
	up := &single{vf: vf(value.NewInt(3))}
	buildBody := func(in Op) Op {
		return &dupOp{upstream: in, a: 0, dst: 0}
	}
	op := newMaybeOp(up, buildBody)
	results := drainAll(t, op)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), intAt(t, results[0], 0))
}

// TestProtectOpRestoresSlot checks that a body mutating its protected
// slot has that mutation undone once the body's output passes through.
func TestProtectOpRestoresSlot(t *testing.T) {
	up := &single{vf: vf(value.NewInt(5))}
	op := newProtectOp(up, 0, func(in Op) Op {
		return &constOp{upstream: in, val: big.NewInt(99), domain: value.DomainNone, dst: 0}
	})
	out := drain(t, op)
	assert.Equal(t, int64(5), intAt(t, out, 0))
}

// boundedIncrement adds one to slot 0 of each input, producing nothing
// once the result would exceed limit; used to drive closureOp's BFS
// over a synthetic state space with a termination bound supplied by
// the test.
type boundedIncrement struct {
	upstream Op
	limit    int64
}

func (o *boundedIncrement) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	n := intAtUnchecked(vf, 0) + 1
	if n > o.limit {
		return nil, nil
	}
	vf.Set(0, value.NewInt(n))
	return vf, nil
}

func intAtUnchecked(v *value.Valfile, i int) int64 {
	iv, ok := v.At(i).(*value.Int)
	if !ok {
		return 0
	}
	return iv.N.Int64()
}

func TestClosureOpStarIncludesSeed(t *testing.T) {
	up := &single{vf: vf(value.NewInt(0))}
	buildBody := func(in Op) Op { return &boundedIncrement{upstream: in, limit: 2} }
	op := newClosureOp(up, buildBody, false)
	results := drainAll(t, op)
	var got []int64
	for _, r := range results {
		got = append(got, intAt(t, r, 0))
	}
	assert.ElementsMatch(t, []int64{0, 1, 2}, got)
}

func TestClosureOpPlusExcludesSeed(t *testing.T) {
	up := &single{vf: vf(value.NewInt(0))}
	buildBody := func(in Op) Op { return &boundedIncrement{upstream: in, limit: 2} }
	op := newClosureOp(up, buildBody, true)
	results := drainAll(t, op)
	var got []int64
	for _, r := range results {
		got = append(got, intAt(t, r, 0))
	}
	assert.ElementsMatch(t, []int64{1, 2}, got)
}

// TestCaptureOpCollectsBodyOutputsAsSeq drives a closure body through
// capture so the body produces more than one output from a single
// seed, the case that distinguishes capture's collection loop from a
// straight pass-through.
func TestCaptureOpCollectsBodyOutputsAsSeq(t *testing.T) {
	seed := value.NewValfile(2)
	seed.Set(0, value.NewInt(0))
	up := &single{vf: seed}
	buildBody := func(in Op) Op {
		return newClosureOp(in, func(in2 Op) Op {
			return &boundedIncrement{upstream: in2, limit: 2}
		}, false)
	}
	op := newCaptureOp(up, buildBody, 0, 1, 1)
	out := drain(t, op)
	seq, ok := out.At(1).(*value.Seq)
	require.True(t, ok)
	require.Equal(t, 3, len(seq.Elems))
	var got []int64
	for _, e := range seq.Elems {
		got = append(got, e.(*value.Int).N.Int64())
	}
	assert.ElementsMatch(t, []int64{0, 1, 2}, got)
}

// TestTransformOpIsolatesSubScope exercises 2/swap against a 3-slot
// enclosing valfile: the body swaps its own two slots, and the
// untouched lower slot proves the body ran in its own sub-scope rather
// than against the full enclosing valfile (which would be a silent
// no-op for swap on the wrong pair of slots).
func TestTransformOpIsolatesSubScope(t *testing.T) {
	up := &single{vf: vf(value.NewInt(100), value.NewInt(1), value.NewInt(2))}
	buildBody := func(in Op) Op {
		return &swapOp{upstream: in, a: 0, b: 1}
	}
	op := newTransformOp(up, buildBody, 1, 2, 2, 2)
	out := drain(t, op)
	assert.Equal(t, int64(100), intAt(t, out, 0))
	assert.Equal(t, int64(2), intAt(t, out, 1))
	assert.Equal(t, int64(1), intAt(t, out, 2))
}

// TestTransformOpNarrowsStack exercises 2/drop: the body's output is
// narrower than its n-slot input, so the transform must splice back
// only the body's surviving slot and clear the rest, netting the
// enclosing stack down by one.
func TestTransformOpNarrowsStack(t *testing.T) {
	up := &single{vf: vf(value.NewInt(100), value.NewInt(1), value.NewInt(2))}
	buildBody := func(in Op) Op {
		return &dropOp{upstream: in, dst: 1}
	}
	op := newTransformOp(up, buildBody, 1, 2, 1, 2)
	out := drain(t, op)
	assert.Equal(t, int64(100), intAt(t, out, 0))
	assert.Equal(t, int64(1), intAt(t, out, 1))
	assert.Nil(t, out.At(2))
}

// TestTransformOpYieldsOncePerBodyOutput exercises a body that
// produces more than one output for a single input: transform must
// splice back and emit once per body output, not collapse to one.
func TestTransformOpYieldsOncePerBodyOutput(t *testing.T) {
	up := &single{vf: vf(value.NewInt(100), value.NewInt(5))}
	buildBody := func(in Op) Op {
		return newAltOp(in, []func(Op) Op{
			func(in2 Op) Op { return &dupOp{upstream: in2, a: 0, dst: 0} },
			func(in2 Op) Op {
				return &constOp{upstream: in2, val: big.NewInt(9), domain: value.DomainNone, dst: 0}
			},
		})
	}
	op := newTransformOp(up, buildBody, 1, 1, 1, 1)
	results := drainAll(t, op)
	require.Len(t, results, 2)
	assert.Equal(t, int64(100), intAt(t, results[0], 0))
	assert.Equal(t, int64(5), intAt(t, results[0], 1))
	assert.Equal(t, int64(100), intAt(t, results[1], 0))
	assert.Equal(t, int64(9), intAt(t, results[1], 1))
}

type alwaysFail struct{}

func (p *alwaysFail) Eval(vf *value.Valfile) (bool, error) { return false, nil }
