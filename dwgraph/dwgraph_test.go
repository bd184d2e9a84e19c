// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwgraph

import (
	"os"
	"testing"

	"github.com/aclements/go-dwgrep/obj"
	"github.com/aclements/go-dwgrep/value"
)

// openSelfGraph opens the running test binary's own DWARF, the same
// fixture-free approach obj_test.go uses: go test always builds a
// real ELF or Mach-O executable, so this exercises the graph against
// live data without any checked-in object files.
func openSelfGraph(t *testing.T) *Graph {
	t.Helper()
	path, err := os.Executable()
	if err != nil {
		t.Skipf("can't locate test binary: %v", err)
	}
	f, err := obj.Open(path)
	if err != nil {
		t.Fatalf("obj.Open(%q): %v", path, err)
	}
	t.Cleanup(func() { f.Close() })

	dw, err := f.DWARF()
	if err != nil {
		t.Skipf("test binary has no usable DWARF: %v", err)
	}
	return New(value.NewDwarf(path, dw))
}

func TestUnitsNonEmpty(t *testing.T) {
	g := openSelfGraph(t)
	units, err := g.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) == 0 {
		t.Fatalf("expected at least one compile unit in a go test binary")
	}
}

// TestRootDieHasNoParent checks the root/parent invariant ?root
// relies on: every compile unit's root DIE reports no parent.
func TestRootDieHasNoParent(t *testing.T) {
	g := openSelfGraph(t)
	units, err := g.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	for _, cu := range units {
		root := g.RootDie(cu)
		parent, err := g.Parent(root)
		if err != nil {
			t.Fatalf("Parent(root): %v", err)
		}
		if parent != nil {
			t.Fatalf("compile unit root reported a parent")
		}
	}
}

// TestChildrenRoundTripToParent checks that every child of a root DIE
// reports that root back as its parent.
func TestChildrenRoundTripToParent(t *testing.T) {
	g := openSelfGraph(t)
	units, err := g.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	root := g.RootDie(units[0])
	children, err := g.Children(root)
	if err != nil {
		t.Fatalf("Children(root): %v", err)
	}
	if len(children) == 0 {
		t.Skip("first compile unit has no children; build flags vary across CI")
	}
	parent, err := g.Parent(children[0])
	if err != nil {
		t.Fatalf("Parent(child): %v", err)
	}
	if parent == nil {
		t.Fatalf("child reported no parent")
	}
	// debug/dwarf.Reader allocates a fresh *dwarf.Entry per read, so
	// identity has to be compared by offset, not pointer.
	if parent.Entry == nil || parent.Entry.Offset != root.Entry.Offset {
		t.Fatalf("child's parent didn't round-trip to the unit root")
	}
}

// TestNextPrevAreInverses checks sibling navigation both ways across
// the children of the first compile unit's root that has at least two.
func TestNextPrevAreInverses(t *testing.T) {
	g := openSelfGraph(t)
	units, err := g.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	var children []*value.Die
	for _, cu := range units {
		cs, err := g.Children(g.RootDie(cu))
		if err != nil {
			t.Fatalf("Children: %v", err)
		}
		if len(cs) >= 2 {
			children = cs
			break
		}
	}
	if children == nil {
		t.Skip("no compile unit with 2+ children found; build flags vary across CI")
	}
	next, err := g.Next(children[0])
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next == nil || next.Entry.Offset != children[1].Entry.Offset {
		t.Fatalf("Next(children[0]) didn't match children[1]")
	}
	prev, err := g.Prev(children[1])
	if err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if prev == nil || prev.Entry.Offset != children[0].Entry.Offset {
		t.Fatalf("Prev(children[1]) didn't match children[0]")
	}
}
