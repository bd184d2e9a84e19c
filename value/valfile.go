// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Valfile is the ordered, indexed array of values ("slots") passed
// between operators along an edge of the operator DAG. It starts with
// the slot count the analysis pass allocates for its scope, and Set
// extends it when an operator writes past the last slot. It also
// carries a scratch extension (PushScratch/Scratch/ResetScratch) that
// Clone copies; the capture operator collects its Seq in a local
// slice and does not use it (§3: "Valfile").
type Valfile struct {
	slots   []Value
	scratch []Value
}

// NewValfile returns a Valfile with n statically-allocated slots, all
// initially nil.
func NewValfile(n int) *Valfile {
	return &Valfile{slots: make([]Value, n)}
}

// Size returns the current number of slots.
func (vf *Valfile) Size() int { return len(vf.slots) }

// At returns the value in slot i.
func (vf *Valfile) At(i int) Value { return vf.slots[i] }

// Set stores v in slot i, first extending the valfile with nil slots
// if i is past the last slot.
func (vf *Valfile) Set(i int, v Value) {
	if i >= len(vf.slots) {
		vf.slots = append(vf.slots, make([]Value, i+1-len(vf.slots))...)
	}
	vf.slots[i] = v
}

// Top returns the value in the last slot, the stack top by
// convention (§3: slot nsz-1 is the top of stack).
func (vf *Valfile) Top() Value {
	return vf.slots[len(vf.slots)-1]
}

// SetTop stores v in the last slot.
func (vf *Valfile) SetTop(v Value) {
	vf.slots[len(vf.slots)-1] = v
}

// Clone returns a Valfile with its own slot array holding Clone()s of
// every occupied slot, leaving the original untouched by subsequent
// mutation. The alt/maybe/closure branch points and the fan-out
// selectors rely on this to hand each branch an independently mutable
// copy.
func (vf *Valfile) Clone() *Valfile {
	out := &Valfile{slots: make([]Value, len(vf.slots))}
	for i, v := range vf.slots {
		if v != nil {
			out.slots[i] = v.Clone()
		}
	}
	if vf.scratch != nil {
		out.scratch = append([]Value(nil), vf.scratch...)
		for i, v := range out.scratch {
			if v != nil {
				out.scratch[i] = v.Clone()
			}
		}
	}
	return out
}

// PushScratch appends v to the scratch extension.
func (vf *Valfile) PushScratch(v Value) {
	vf.scratch = append(vf.scratch, v)
}

// Scratch returns the accumulated scratch extension, in push order.
func (vf *Valfile) Scratch() []Value {
	return vf.scratch
}

// ResetScratch clears the scratch extension.
func (vf *Valfile) ResetScratch() {
	vf.scratch = nil
}
