// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// valfileShow renders every slot of vf with Show(false), the stable,
// exported projection used to structurally diff a Valfile's contents
// without reaching into its unexported slot array.
func valfileShow(vf *Valfile) []string {
	out := make([]string, vf.Size())
	for i := 0; i < vf.Size(); i++ {
		v := vf.At(i)
		if v == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = v.Show(false)
	}
	return out
}

// TestValfileCloneStructuralDiff diffs a cloned Valfile's contents
// against the original's, confirming Clone() is a faithful deep copy
// slot for slot.
func TestValfileCloneStructuralDiff(t *testing.T) {
	vf := NewValfile(3)
	vf.Set(0, NewInt(1))
	vf.Set(1, NewStr("x"))
	vf.Set(2, NewSeq([]Value{NewInt(2), NewInt(3)}))

	clone := vf.Clone()
	if diff := cmp.Diff(valfileShow(vf), valfileShow(clone)); diff != "" {
		t.Errorf("clone diverged from original (-orig +clone):\n%s", diff)
	}

	clone.Set(0, NewInt(99))
	if diff := cmp.Diff(valfileShow(vf), valfileShow(clone)); diff == "" {
		t.Errorf("expected clone mutation to diverge from original, got no diff")
	}
}
