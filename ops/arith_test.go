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

func TestArithOpAddSubMulDiv(t *testing.T) {
	cases := []struct {
		kind string
		a, b int64
		want int64
	}{
		{"F_ADD", 3, 4, 7},
		{"F_SUB", 10, 3, 7},
		{"F_MUL", 6, 7, 42},
		{"F_DIV", 17, 5, 3},
		{"F_MOD", 17, 5, 2},
	}
	for _, c := range cases {
		t.Run(c.kind, func(t *testing.T) {
			up := &single{vf: vf(value.NewInt(c.a), value.NewInt(c.b))}
			op := newArithOp(c.kind, up, 0, 1, 0)
			out := drain(t, op)
			got, ok := out.At(0).(*value.Int)
			require.True(t, ok)
			assert.Equal(t, c.want, got.N.Int64())
		})
	}
}

func TestArithOpDivByZeroFails(t *testing.T) {
	up := &single{vf: vf(value.NewInt(1), value.NewInt(0))}
	op := newArithOp("F_DIV", up, 0, 1, 0)
	_, err := op.Next()
	require.Error(t, err)
	var dz *DivisionByZeroError
	assert.ErrorAs(t, err, &dz)
}

func TestArithOpModByZeroFails(t *testing.T) {
	up := &single{vf: vf(value.NewInt(1), value.NewInt(0))}
	op := newArithOp("F_MOD", up, 0, 1, 0)
	_, err := op.Next()
	require.Error(t, err)
	var dz *DivisionByZeroError
	assert.ErrorAs(t, err, &dz)
}

func TestArithOpRejectsNonInt(t *testing.T) {
	up := &single{vf: vf(value.NewStr("x"), value.NewInt(1))}
	op := newArithOp("F_ADD", up, 0, 1, 0)
	_, err := op.Next()
	require.Error(t, err)
	var tm *TypeMismatchError
	assert.ErrorAs(t, err, &tm)
}
