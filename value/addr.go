// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"strings"

	"github.com/aclements/go-dwgrep/internal/imap"
)

// AddrRange is a single half-open [Low, High) address range value.
type AddrRange struct {
	base
	Low, High int64
	Domain    *Domain
}

func NewAddrRange(low, high int64) *AddrRange {
	return &AddrRange{Low: low, High: high, Domain: DomainAddr}
}

func (v *AddrRange) Tag() Tag { return TAddrRange }

func (v *AddrRange) Clone() Value {
	return &AddrRange{base: base{v.pos}, Low: v.Low, High: v.High, Domain: v.Domain}
}

func (v *AddrRange) Show(brief bool) string {
	s := fmt.Sprintf("[%#x,%#x)", v.Low, v.High)
	if brief {
		return s
	}
	return "ADDR_RANGE<" + s + ">"
}

func (v *AddrRange) compare(o *AddrRange) Ordering {
	switch {
	case v.Low < o.Low:
		return Less
	case v.Low > o.Low:
		return Greater
	case v.High < o.High:
		return Less
	case v.High > o.High:
		return Greater
	default:
		return Equal
	}
}

// AddrSet is a coalescing union of address ranges, backed by an
// interval map (package imap).
type AddrSet struct {
	base
	m *imap.Imap
}

func NewAddrSet() *AddrSet {
	return &AddrSet{m: &imap.Imap{}}
}

// Add inserts [low, high) into the set, coalescing with any adjacent
// or overlapping range already present.
func (v *AddrSet) Add(low, high uint64) {
	v.m.Insert(imap.Interval{Low: low, High: high}, true)
}

// Contains reports whether addr falls within any range in the set.
func (v *AddrSet) Contains(addr uint64) bool {
	iv, val := v.m.Find(addr)
	return val != nil && iv.Contains(addr)
}

// Ranges calls f for each coalesced range in the set, in ascending
// order.
func (v *AddrSet) Ranges(f func(low, high uint64)) {
	it := v.m.Iter(0)
	for it.Valid() {
		k := it.Key()
		f(k.Low, k.High)
		it.Next()
	}
}

func (v *AddrSet) Tag() Tag { return TAddrSet }

func (v *AddrSet) Clone() Value {
	c := NewAddrSet()
	c.pos = v.pos
	v.Ranges(func(low, high uint64) { c.Add(low, high) })
	return c
}

func (v *AddrSet) Show(brief bool) string {
	var parts []string
	v.Ranges(func(low, high uint64) {
		parts = append(parts, fmt.Sprintf("[%#x,%#x)", low, high))
	})
	body := strings.Join(parts, ", ")
	if brief {
		return body
	}
	return "ADDR_SET<" + body + ">"
}

func (v *AddrSet) compare(o *AddrSet) Ordering {
	var a, b []imap.Interval
	v.Ranges(func(low, high uint64) { a = append(a, imap.Interval{Low: low, High: high}) })
	o.Ranges(func(low, high uint64) { b = append(b, imap.Interval{Low: low, High: high}) })
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i].Low < b[i].Low:
			return Less
		case a[i].Low > b[i].Low:
			return Greater
		case a[i].High < b[i].High:
			return Less
		case a[i].High > b[i].High:
			return Greater
		}
	}
	switch {
	case len(a) < len(b):
		return Less
	case len(a) > len(b):
		return Greater
	default:
		return Equal
	}
}
