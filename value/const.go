// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// Int is an arbitrary-precision integer constant, optionally tagged
// with a symbolic Domain (§3: "arbitrary-precision signed magnitude +
// symbolic domain").
type Int struct {
	base
	N      *big.Int
	Domain *Domain
}

// NewInt wraps n as a plain (untyped) integer constant.
func NewInt(n int64) *Int {
	return &Int{N: big.NewInt(n), Domain: DomainNone}
}

// NewBigInt wraps n as a plain integer constant, taking ownership of n.
func NewBigInt(n *big.Int) *Int {
	return &Int{N: n, Domain: DomainNone}
}

// NewDomainInt wraps n as an integer constant in dom.
func NewDomainInt(n int64, dom *Domain) *Int {
	return &Int{N: big.NewInt(n), Domain: dom}
}

func bigFromInt64(n int64) *big.Int { return big.NewInt(n) }

func (v *Int) Tag() Tag { return TInt }

func (v *Int) Clone() Value {
	return &Int{base: base{v.pos}, N: new(big.Int).Set(v.N), Domain: v.Domain}
}

func (v *Int) Show(brief bool) string {
	if v.Domain == DomainNone {
		return v.N.String()
	}
	return v.Domain.Render(v.N)
}

// compare orders two Ints by numeric value first; domain identity is
// only consulted to break ties between equal magnitudes in different
// domains, ordering them by domain name, so such Ints are never Equal
// (see the Domain type's doc).
func (v *Int) compare(o *Int) Ordering {
	switch v.N.Cmp(o.N) {
	case -1:
		return Less
	case 1:
		return Greater
	}
	if v.Domain != o.Domain {
		if v.Domain.Name() < o.Domain.Name() {
			return Less
		}
		return Greater
	}
	return Equal
}
