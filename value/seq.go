// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "strings"

// Seq is an ordered sequence of values, the result of the capture
// operator (§4.3) and of EMPTY_LIST literals.
type Seq struct {
	base
	Elems []Value
}

func NewSeq(elems []Value) *Seq { return &Seq{Elems: elems} }

func (v *Seq) Tag() Tag { return TSeq }

func (v *Seq) Clone() Value {
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Clone()
	}
	return &Seq{base: base{v.pos}, Elems: elems}
}

func (v *Seq) Show(brief bool) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range v.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Show(brief))
	}
	b.WriteByte(']')
	return b.String()
}

// compare orders two sequences lexicographically by element, failing
// ("ok=false") if a corresponding pair of elements is itself
// incomparable (different variants).
func (v *Seq) compare(o *Seq) (Ordering, bool) {
	n := len(v.Elems)
	if len(o.Elems) < n {
		n = len(o.Elems)
	}
	for i := 0; i < n; i++ {
		ord, ok := Compare(v.Elems[i], o.Elems[i])
		if !ok {
			return 0, false
		}
		if ord != Equal {
			return ord, true
		}
	}
	switch {
	case len(v.Elems) < len(o.Elems):
		return Less, true
	case len(v.Elems) > len(o.Elems):
		return Greater, true
	default:
		return Equal, true
	}
}
