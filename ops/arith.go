// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math/big"

	"github.com/aclements/go-dwgrep/value"
)

// asInt type-checks v as an arbitrary-precision integer, the variant
// F_ADD/F_SUB/F_MUL/F_DIV/F_MOD require on both operands (§3:
// arbitrary-precision signed magnitude).
func asInt(op string, v value.Value) (*value.Int, error) {
	i, ok := v.(*value.Int)
	if !ok {
		return nil, &TypeMismatchError{Op: op, Expected: "integer", Got: v.Tag().String()}
	}
	return i, nil
}

// arithOp implements F_ADD/F_SUB/F_MUL/F_DIV/F_MOD (§4.3): pops the
// two operands in a and b, applies fn, and writes the result to dst
// (pop-2/push-1, the same shape as the comparison predicates). div and
// mod raise DivisionByZeroError on a zero divisor rather than
// panicking, per §7's arbitrary-precision arithmetic semantics.
type arithOp struct {
	upstream  Op
	name      string
	a, b, dst int
	fn        func(z, a, b *big.Int) error
}

func (o *arithOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	av, err := asInt(o.name, vf.At(o.a))
	if err != nil {
		return nil, err
	}
	bv, err := asInt(o.name, vf.At(o.b))
	if err != nil {
		return nil, err
	}
	z := new(big.Int)
	if err := o.fn(z, av.N, bv.N); err != nil {
		return nil, err
	}
	vf.Set(o.b, nil)
	vf.Set(o.dst, value.NewBigInt(z))
	return vf, nil
}

func newArithOp(kind string, upstream Op, a, b, dst int) Op {
	var name string
	var fn func(z, a, b *big.Int) error
	switch kind {
	case "F_ADD":
		name, fn = "add", func(z, a, b *big.Int) error { z.Add(a, b); return nil }
	case "F_SUB":
		name, fn = "sub", func(z, a, b *big.Int) error { z.Sub(a, b); return nil }
	case "F_MUL":
		name, fn = "mul", func(z, a, b *big.Int) error { z.Mul(a, b); return nil }
	case "F_DIV":
		name, fn = "div", func(z, a, b *big.Int) error {
			if b.Sign() == 0 {
				return &DivisionByZeroError{Op: "div"}
			}
			z.Quo(a, b)
			return nil
		}
	case "F_MOD":
		name, fn = "mod", func(z, a, b *big.Int) error {
			if b.Sign() == 0 {
				return &DivisionByZeroError{Op: "mod"}
			}
			z.Rem(a, b)
			return nil
		}
	}
	return &arithOp{upstream: upstream, name: name, a: a, b: b, dst: dst, fn: fn}
}
