// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math/big"

	"github.com/aclements/go-dwgrep/value"
)

type dupOp struct {
	upstream Op
	a, dst   int
}

func (o *dupOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	vf.Set(o.dst, vf.At(o.a).Clone())
	return vf, nil
}

type swapOp struct {
	upstream Op
	a, b     int
}

func (o *swapOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	va, vb := vf.At(o.a), vf.At(o.b)
	vf.Set(o.a, vb)
	vf.Set(o.b, va)
	return vf, nil
}

type overOp struct {
	upstream Op
	a, dst   int
}

func (o *overOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	vf.Set(o.dst, vf.At(o.a).Clone())
	return vf, nil
}

// rotOp rotates the three slots a, b, src left: (a, b, src) becomes
// (b, src, a), matching the builtin shuffle's three-element rotation.
type rotOp struct {
	upstream    Op
	a, b, src   int
}

func (o *rotOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	va, vb, vc := vf.At(o.a), vf.At(o.b), vf.At(o.src)
	vf.Set(o.a, vb)
	vf.Set(o.b, vc)
	vf.Set(o.src, va)
	return vf, nil
}

type dropOp struct {
	upstream Op
	dst      int
}

func (o *dropOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	vf.Set(o.dst, nil)
	return vf, nil
}

type constOp struct {
	upstream Op
	val      *big.Int
	domain   *value.Domain
	dst      int
}

func (o *constOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	v := value.NewBigInt(new(big.Int).Set(o.val))
	v.Domain = o.domain
	vf.Set(o.dst, v)
	return vf, nil
}
