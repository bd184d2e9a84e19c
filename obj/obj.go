// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj opens object files and exposes their DWARF debug
// information.
//
// It stands in for the "ELF and build-id helpers" the query engine
// treats as an external collaborator: callers never see section
// headers, symbol tables, or relocations here, only a dispatch across
// object formats that ends in a *dwarf.Data.
package obj

import (
	"debug/dwarf"
	"fmt"
	"io"
	"os"
)

// A File is an open object file that may carry DWARF debug
// information.
type File interface {
	// Close closes this object file, releasing any OS resources used
	// by it. It's possible that referencing a *dwarf.Data returned
	// from this File after closing panics.
	Close() error

	// Format names the underlying object file format ("elf",
	// "macho"), for diagnostics.
	Format() string

	// DWARF returns the file's debug information, or an error if it
	// has none or it is malformed.
	DWARF() (*dwarf.Data, error)

	// SectionData returns the raw, uncompressed bytes of the named
	// section (e.g. ".debug_abbrev"), or an error if the section
	// doesn't exist.
	//
	// This exists because debug/dwarf doesn't expose the raw
	// abbreviation tables it parses internally, nor ".debug_loc"; the
	// DWARF adapter re-parses ".debug_abbrev" itself to answer the query
	// language's abbrev/abbrev-attribute selectors, and decodes
	// location lists from ".debug_loc".
	SectionData(name string) ([]byte, error)
}

// Open opens the object file at path and identifies its format.
//
// The returned File must be closed when no longer needed.
func Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	file, err := openReaderAt(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

// openReaderAt identifies the object file format readable through ra
// and returns a File that closes c when done.
func openReaderAt(ra io.ReaderAt, c io.Closer) (File, error) {
	if isElf, f, err := openElf(ra, c); isElf {
		return f, err
	}
	if isMachO, f, err := openMachO(ra, c); isMachO {
		return f, err
	}
	return nil, fmt.Errorf("unrecognized object file format")
}

func readMagic(r io.ReaderAt, n int) ([]byte, bool) {
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, false
	}
	return buf, true
}
