// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"regexp"
	"strings"

	"github.com/aclements/go-dwgrep/dwgraph"
	"github.com/aclements/go-dwgrep/value"
)

// Predicate evaluates a yes/no/fail question against a valfile
// without consuming it (§4.3: "assertions"). An error return is a
// genuine fail: the predicate ran against a value of the wrong
// variant.
type Predicate interface {
	Eval(vf *value.Valfile) (bool, error)
}

type notPred struct{ p Predicate }

func (p *notPred) Eval(vf *value.Valfile) (bool, error) {
	ok, err := p.p.Eval(vf)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type andPred struct{ ps []Predicate }

func (p *andPred) Eval(vf *value.Valfile) (bool, error) {
	for _, sub := range p.ps {
		ok, err := sub.Eval(vf)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

type orPred struct{ ps []Predicate }

func (p *orPred) Eval(vf *value.Valfile) (bool, error) {
	for _, sub := range p.ps {
		ok, err := sub.Eval(vf)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// cmpPred implements PRED_EQ/NE/LT/GT/LE/GE (§4.3), comparing the
// values in slots a and b via value.Compare. Incomparable variants
// fail rather than silently returning false.
type cmpPred struct {
	a, b int
	want func(value.Ordering) bool
	name string
}

func (p *cmpPred) Eval(vf *value.Valfile) (bool, error) {
	ord, ok := value.Compare(vf.At(p.a), vf.At(p.b))
	if !ok {
		return false, &PredicateFailureError{Pred: p.name, Got: vf.At(p.a).Show(true) + " vs " + vf.At(p.b).Show(true)}
	}
	return p.want(ord), nil
}

func newEqPred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "eq", want: func(o value.Ordering) bool { return o == value.Equal }}
}
func newNePred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "ne", want: func(o value.Ordering) bool { return o != value.Equal }}
}
func newLtPred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "lt", want: func(o value.Ordering) bool { return o == value.Less }}
}
func newGtPred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "gt", want: func(o value.Ordering) bool { return o == value.Greater }}
}
func newLePred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "le", want: func(o value.Ordering) bool { return o != value.Greater }}
}
func newGePred(a, b int) *cmpPred {
	return &cmpPred{a: a, b: b, name: "ge", want: func(o value.Ordering) bool { return o != value.Less }}
}

func asStr(op string, v value.Value) (*value.Str, error) {
	s, ok := v.(*value.Str)
	if !ok {
		return nil, &PredicateFailureError{Pred: op, Got: v.Show(true)}
	}
	return s, nil
}

func compileMatchPattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

type matchPred struct {
	slot int
	re   *regexp.Regexp
}

func (p *matchPred) Eval(vf *value.Valfile) (bool, error) {
	s, err := asStr("match", vf.At(p.slot))
	if err != nil {
		return false, err
	}
	return p.re.MatchString(s.S), nil
}

type findPred struct {
	slot int
	sub  string
}

func (p *findPred) Eval(vf *value.Valfile) (bool, error) {
	s, err := asStr("find", vf.At(p.slot))
	if err != nil {
		return false, err
	}
	return strings.Contains(s.S, p.sub), nil
}

// atPred implements ?at(name): true if the DIE in slot carries an
// attribute named name.
type atPred struct {
	slot int
	name int64
}

func (p *atPred) Eval(vf *value.Valfile) (bool, error) {
	d, err := asDie("at", vf.At(p.slot))
	if err != nil {
		return false, err
	}
	for i := range d.Entry.Field {
		if int64(d.Entry.Field[i].Attr) == p.name {
			return true, nil
		}
	}
	return false, nil
}

// tagPred implements ?tag(code): true if the DIE in slot has the
// given DW_TAG code.
type tagPred struct {
	slot int
	code int64
}

func (p *tagPred) Eval(vf *value.Valfile) (bool, error) {
	d, err := asDie("tag", vf.At(p.slot))
	if err != nil {
		return false, err
	}
	return int64(d.Entry.Tag) == p.code, nil
}

// rootPred implements ?root: true if the DIE in slot has no parent,
// i.e. it's a compile unit's root DIE.
type rootPred struct {
	slot int
	g    *dwgraph.Graph
}

func (p *rootPred) Eval(vf *value.Valfile) (bool, error) {
	d, err := asDie("root", vf.At(p.slot))
	if err != nil {
		return false, err
	}
	parent, err := p.g.Parent(d)
	if err != nil {
		return false, err
	}
	return parent == nil, nil
}

// emptyPred implements ?empty: true for an empty sequence, string, or
// address set.
type emptyPred struct{ slot int }

func (p *emptyPred) Eval(vf *value.Valfile) (bool, error) {
	switch v := vf.At(p.slot).(type) {
	case *value.Seq:
		return len(v.Elems) == 0, nil
	case *value.Str:
		return v.S == "", nil
	case *value.AddrSet:
		any := false
		v.Ranges(func(lo, hi uint64) { any = true })
		return !any, nil
	default:
		return false, &PredicateFailureError{Pred: "empty", Got: vf.At(p.slot).Show(true)}
	}
}

// subxAnyPred implements ?(body): true if body produces at least one
// output against the current input.
type subxAnyPred struct {
	buildBody func(Op) Op
}

func (p *subxAnyPred) Eval(vf *value.Valfile) (bool, error) {
	body := p.buildBody(&single{vf: vf.Clone()})
	out, err := body.Next()
	if err != nil {
		return false, err
	}
	return out != nil, nil
}

// assertOp implements ?pred and !pred (ASSERT, §4.3): forwards the
// input unchanged when pred holds, drops it (pulls the next upstream
// valfile instead) when it doesn't. A fail from pred propagates as a
// real error rather than being treated as "doesn't hold".
type assertOp struct {
	upstream Op
	pred     Predicate
}

func newAssertOp(upstream Op, pred Predicate) *assertOp {
	return &assertOp{upstream: upstream, pred: pred}
}

func (o *assertOp) Next() (*value.Valfile, error) {
	for {
		vf, err := o.upstream.Next()
		if vf == nil || err != nil {
			return nil, err
		}
		ok, err := o.pred.Eval(vf)
		if err != nil {
			return nil, err
		}
		if ok {
			return vf, nil
		}
	}
}
