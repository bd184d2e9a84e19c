// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-dwgrep/value"
)

// sliceOp yields a fixed sequence of valfiles, then is exhausted. It
// stands in for a real upstream in tests that need more than one
// input, unlike single which only ever yields once.
type sliceOp struct {
	vfs []*value.Valfile
	i   int
}

func (s *sliceOp) Next() (*value.Valfile, error) {
	if s.i >= len(s.vfs) {
		return nil, nil
	}
	v := s.vfs[s.i]
	s.i++
	return v, nil
}

func TestCmpPredEqAndLt(t *testing.T) {
	ok, err := newEqPred(0, 1).Eval(vf(value.NewInt(3), value.NewInt(3)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = newLtPred(0, 1).Eval(vf(value.NewInt(3), value.NewInt(5)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = newLtPred(0, 1).Eval(vf(value.NewInt(5), value.NewInt(3)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCmpPredFailsAcrossVariants(t *testing.T) {
	_, err := newEqPred(0, 1).Eval(vf(value.NewInt(3), value.NewStr("3")))
	require.Error(t, err)
	var pfe *PredicateFailureError
	assert.ErrorAs(t, err, &pfe)
}

func TestNotAndAndOrPred(t *testing.T) {
	v := vf(value.NewInt(1), value.NewInt(1))
	eq := newEqPred(0, 1)
	ne := newNePred(0, 1)

	ok, err := (&notPred{p: eq}).Eval(v)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = (&andPred{ps: []Predicate{eq, eq}}).Eval(v)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = (&orPred{ps: []Predicate{ne, eq}}).Eval(v)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = (&orPred{ps: []Predicate{ne}}).Eval(v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchPred(t *testing.T) {
	re, err := compileMatchPattern("^ma.n$")
	require.NoError(t, err)
	p := &matchPred{slot: 0, re: re}

	ok, err := p.Eval(vf(value.NewStr("main")))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Eval(vf(value.NewStr("xmainx")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchPredFailsOnNonString(t *testing.T) {
	re, err := compileMatchPattern(".*")
	require.NoError(t, err)
	p := &matchPred{slot: 0, re: re}
	_, err = p.Eval(vf(value.NewInt(1)))
	require.Error(t, err)
}

func TestFindPred(t *testing.T) {
	p := &findPred{slot: 0, sub: "ain"}
	ok, err := p.Eval(vf(value.NewStr("main")))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Eval(vf(value.NewStr("foo")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyPred(t *testing.T) {
	p := &emptyPred{slot: 0}

	ok, err := p.Eval(vf(value.NewSeq(nil)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Eval(vf(value.NewSeq([]value.Value{value.NewInt(1)})))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Eval(vf(value.NewStr("")))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssertOpDropsFailingInputsAndKeepsPassing(t *testing.T) {
	up := &sliceOp{vfs: []*value.Valfile{
		vf(value.NewInt(1)),
		vf(value.NewInt(2)),
		vf(value.NewInt(3)),
	}}
	op := newAssertOp(up, &onlyValue{want: 2})
	results := drainAll(t, op)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), intAt(t, results[0], 0))
}

type onlyValue struct{ want int64 }

func (p *onlyValue) Eval(vf *value.Valfile) (bool, error) {
	iv, ok := vf.At(0).(*value.Int)
	if !ok {
		return false, &PredicateFailureError{Pred: "onlyValue", Got: "not-int"}
	}
	return iv.N.Int64() == p.want, nil
}

func TestAssertOpPropagatesPredicateFailure(t *testing.T) {
	up := &sliceOp{vfs: []*value.Valfile{vf(value.NewStr("x"))}}
	op := newAssertOp(up, &onlyValue{want: 1})
	_, err := op.Next()
	require.Error(t, err)
	var pfe *PredicateFailureError
	assert.ErrorAs(t, err, &pfe)
}
