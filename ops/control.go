// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/cespare/xxhash/v2"

	"github.com/aclements/go-dwgrep/value"
)

// single produces the given valfile exactly once, then is exhausted.
// It seeds the upstream end of a freshly-built body sub-chain with one
// concrete input (§4.3's branch points each drive a body against a
// single seed valfile before asking upstream for the next one).
type single struct {
	vf   *value.Valfile
	done bool
}

func (s *single) Next() (*value.Valfile, error) {
	if s.done {
		return nil, nil
	}
	s.done = true
	return s.vf, nil
}

// recorder wraps an upstream and remembers the last value seen in slot
// on every pull, so a protectOp can restore it after its body runs,
// however many valfiles the body produced along the way.
type recorder struct {
	upstream Op
	slot     int
	last     value.Value
}

func (r *recorder) Next() (*value.Valfile, error) {
	vf, err := r.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	r.last = vf.At(r.slot)
	return vf, nil
}

// protectOp implements -body (PROTECT, §4.3): runs body, then restores
// slot to its pre-call value in every valfile body produces, so body
// can use slot as scratch space without disturbing the caller's view
// of it.
type protectOp struct {
	upstream Op
	slot     int
	rec      *recorder
	body     Op
}

func newProtectOp(upstream Op, slot int, buildBody func(Op) Op) *protectOp {
	rec := &recorder{upstream: upstream, slot: slot}
	return &protectOp{upstream: upstream, slot: slot, rec: rec, body: buildBody(rec)}
}

func (o *protectOp) Next() (*value.Valfile, error) {
	vf, err := o.body.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	vf.Set(o.slot, o.rec.last)
	return vf, nil
}

// altOp implements alternation (§4.3): for each upstream valfile it
// drives branch 1 to exhaustion, then branch 2 against a fresh clone
// of the same input, and so on, only then pulling the next upstream
// valfile.
type altOp struct {
	upstream Op
	branches []func(Op) Op

	input     *value.Valfile
	branchIdx int
	cur       Op
}

func newAltOp(upstream Op, branches []func(Op) Op) *altOp {
	return &altOp{upstream: upstream, branches: branches}
}

func (o *altOp) Next() (*value.Valfile, error) {
	for {
		if o.cur == nil {
			if o.input == nil {
				vf, err := o.upstream.Next()
				if vf == nil || err != nil {
					return nil, err
				}
				o.input = vf
				o.branchIdx = 0
			}
			if o.branchIdx >= len(o.branches) {
				o.input = nil
				continue
			}
			seed := &single{vf: o.input.Clone()}
			o.cur = o.branches[o.branchIdx](seed)
			o.branchIdx++
		}
		vf, err := o.cur.Next()
		if err != nil {
			return nil, err
		}
		if vf == nil {
			o.cur = nil
			continue
		}
		return vf, nil
	}
}

// maybeOp implements body? (MAYBE, §4.3): emits every output body
// produces for the current input; if body produces none, emits the
// input verbatim instead.
type maybeOp struct {
	upstream  Op
	buildBody func(Op) Op

	body    Op
	pending *value.Valfile
	any     bool
}

func newMaybeOp(upstream Op, buildBody func(Op) Op) *maybeOp {
	return &maybeOp{upstream: upstream, buildBody: buildBody}
}

func (o *maybeOp) Next() (*value.Valfile, error) {
	for {
		if o.body == nil {
			vf, err := o.upstream.Next()
			if vf == nil || err != nil {
				return nil, err
			}
			o.pending, o.any = vf, false
			o.body = o.buildBody(&single{vf: vf.Clone()})
		}
		out, err := o.body.Next()
		if err != nil {
			return nil, err
		}
		if out != nil {
			o.any = true
			return out, nil
		}
		o.body = nil
		if !o.any {
			p := o.pending
			o.pending = nil
			return p, nil
		}
	}
}

// hashValfile is a cheap, approximate identity for a whole valfile,
// used by the closure operators' visited set. Collisions are resolved
// by falling back to value.Compare, so correctness never depends on
// the hash being collision-free.
func hashValfile(vf *value.Valfile) uint64 {
	h := xxhash.New()
	for i := 0; i < vf.Size(); i++ {
		v := vf.At(i)
		if v == nil {
			h.Write([]byte{0})
			continue
		}
		h.Write([]byte{1})
		h.Write([]byte(v.Show(false)))
	}
	return h.Sum64()
}

func sameValfile(a, b *value.Valfile) bool {
	if a.Size() != b.Size() {
		return false
	}
	for i := 0; i < a.Size(); i++ {
		va, vb := a.At(i), b.At(i)
		if va == nil || vb == nil {
			if va != vb {
				return false
			}
			continue
		}
		ord, ok := value.Compare(va, vb)
		if !ok || ord != value.Equal {
			return false
		}
	}
	return true
}

// visitedSet deduplicates valfiles by content, per the closure
// operators' "don't revisit a state" rule (§4.3).
type visitedSet struct {
	buckets map[uint64][]*value.Valfile
}

func newVisitedSet() *visitedSet {
	return &visitedSet{buckets: map[uint64][]*value.Valfile{}}
}

// addIfNew reports whether vf is new, recording it if so.
func (s *visitedSet) addIfNew(vf *value.Valfile) bool {
	h := hashValfile(vf)
	for _, seen := range s.buckets[h] {
		if sameValfile(seen, vf) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], vf)
	return true
}

// closureOp implements body* and body+ (CLOSE_STAR/CLOSE_PLUS, §4.3):
// a breadth-first walk of the states reachable by repeatedly applying
// body, starting from the input (skipped for body+) and never
// revisiting an equal state.
type closureOp struct {
	upstream     Op
	buildBody    func(Op) Op
	suppressZero bool

	seen  *visitedSet
	queue []*value.Valfile
	first bool
}

func newClosureOp(upstream Op, buildBody func(Op) Op, suppressZero bool) *closureOp {
	return &closureOp{upstream: upstream, buildBody: buildBody, suppressZero: suppressZero}
}

func (o *closureOp) Next() (*value.Valfile, error) {
	for {
		if len(o.queue) == 0 {
			vf, err := o.upstream.Next()
			if vf == nil || err != nil {
				return nil, err
			}
			o.seen = newVisitedSet()
			o.seen.addIfNew(vf)
			o.queue = []*value.Valfile{vf}
			o.first = true
		}

		item := o.queue[0]
		o.queue = o.queue[1:]
		emitThis := !(o.first && o.suppressZero)
		o.first = false

		body := o.buildBody(&single{vf: item.Clone()})
		for {
			nv, err := body.Next()
			if err != nil {
				return nil, err
			}
			if nv == nil {
				break
			}
			if o.seen.addIfNew(nv) {
				o.queue = append(o.queue, nv)
			}
		}

		if emitThis {
			return item, nil
		}
	}
}

// captureOp implements [body] (CAPTURE, §4.3): runs body against a
// single-slot valfile seeded with the current top-of-stack value,
// collects every output's top-of-stack value, and pushes them as a
// Seq.
type captureOp struct {
	upstream  Op
	buildBody func(Op) Op
	src, dst  int
	bodyNsz   int
}

func newCaptureOp(upstream Op, buildBody func(Op) Op, src, dst, bodyNsz int) *captureOp {
	return &captureOp{upstream: upstream, buildBody: buildBody, src: src, dst: dst, bodyNsz: bodyNsz}
}

func (o *captureOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	seed := value.NewValfile(o.bodyNsz)
	seed.Set(0, vf.At(o.src).Clone())
	body := o.buildBody(&single{vf: seed})

	var elems []value.Value
	for {
		out, err := body.Next()
		if err != nil {
			return nil, err
		}
		if out == nil {
			break
		}
		elems = append(elems, out.Top().Clone())
	}
	vf.Set(o.dst, value.NewSeq(elems))
	return vf, nil
}

// transformOp implements n/body (TRANSFORM, §4.2/§4.3): runs body
// against a fresh n-slot sub-valfile seeded from the top n slots of
// the input, the same sub-scope isolation CAPTURE gives its body, and
// splices each of body's outputs back under the preserved lower
// slots, yielding one output per body output.
type transformOp struct {
	upstream  Op
	buildBody func(Op) Op
	src, n    int
	bodyNsz   int
	nsz       int

	cur  *value.Valfile
	body Op
}

func newTransformOp(upstream Op, buildBody func(Op) Op, src, n, bodyNsz, nsz int) *transformOp {
	return &transformOp{upstream: upstream, buildBody: buildBody, src: src, n: n, bodyNsz: bodyNsz, nsz: nsz}
}

func (o *transformOp) Next() (*value.Valfile, error) {
	for {
		if o.body == nil {
			vf, err := o.upstream.Next()
			if vf == nil || err != nil {
				return nil, err
			}
			o.cur = vf
			seed := value.NewValfile(o.nsz)
			for i := 0; i < o.n; i++ {
				seed.Set(i, vf.At(o.src+i).Clone())
			}
			o.body = o.buildBody(&single{vf: seed})
		}
		out, err := o.body.Next()
		if err != nil {
			return nil, err
		}
		if out == nil {
			o.body = nil
			continue
		}
		result := o.cur.Clone()
		width := o.n
		if o.bodyNsz > width {
			width = o.bodyNsz
		}
		for i := 0; i < width; i++ {
			var v value.Value
			if i < o.bodyNsz {
				v = out.At(i)
			}
			result.Set(o.src+i, v)
		}
		return result, nil
	}
}
