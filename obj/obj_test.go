// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"bytes"
	"debug/elf"
	"os"
	"path/filepath"
	"testing"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func TestOpenNonObject(t *testing.T) {
	ident := []byte("AAA")
	f := bytes.NewReader(ident)
	_, err := openReaderAt(f, nopCloser{})
	if err == nil {
		t.Fatalf("openReaderAt succeeded unexpectedly")
	}
	want := "unrecognized object file format"
	if err.Error() != want {
		t.Fatalf("want error %q, got %q", want, err.Error())
	}
}

func TestOpenShortFile(t *testing.T) {
	f := bytes.NewReader([]byte{1, 2})
	_, err := openReaderAt(f, nopCloser{})
	if err == nil {
		t.Fatalf("openReaderAt succeeded unexpectedly on a 2-byte file")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	if !os.IsNotExist(err) {
		t.Fatalf("want a not-exist error, got %v", err)
	}
}

// TestOpenSelf opens the test binary itself: on every platform this
// package supports, go test builds a real ELF or Mach-O executable,
// so this exercises the live format-dispatch path without any
// checked-in fixtures.
func TestOpenSelf(t *testing.T) {
	path, err := os.Executable()
	if err != nil {
		t.Skipf("can't locate test binary: %v", err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	defer f.Close()

	switch f.Format() {
	case "elf", "macho":
	default:
		t.Fatalf("unexpected format %q", f.Format())
	}

	if ef, ok := f.(AsDebugElf); ok {
		if elfFile := ef.AsDebugElf(); elfFile != nil {
			if elfFile.Type != elf.ET_EXEC && elfFile.Type != elf.ET_DYN {
				t.Errorf("unexpected ELF type %v for a test binary", elfFile.Type)
			}
		}
	}

	// A test binary built with "go test" normally carries DWARF line
	// and type information unless it was explicitly stripped; a DWARF()
	// error is only logged, not failed on, since build flags vary
	// across CI configurations.
	if _, err := f.DWARF(); err != nil {
		t.Logf("DWARF() on test binary: %v (may be stripped)", err)
	}
}
