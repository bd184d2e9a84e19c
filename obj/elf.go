// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"debug/dwarf"
	"debug/elf"
	"fmt"
	"io"
	"sync"
)

type elfFile struct {
	c  io.Closer
	f  *elf.File

	dwarfOnce sync.Once
	dwarf     *dwarf.Data
	dwarfErr  error
}

func openElf(r io.ReaderAt, c io.Closer) (bool, File, error) {
	magic, ok := readMagic(r, 4)
	if !ok {
		return false, nil, fmt.Errorf("short read identifying object file format")
	}
	if magic[0] != '\x7f' || magic[1] != 'E' || magic[2] != 'L' || magic[3] != 'F' {
		return false, nil, nil
	}
	// Past this point we commit to ELF: any error is reported as an
	// ELF error rather than falling through to the next format.

	ff, err := elf.NewFile(r)
	if err != nil {
		return true, nil, err
	}
	return true, &elfFile{c: c, f: ff}, nil
}

func (f *elfFile) Close() error {
	return f.c.Close()
}

func (f *elfFile) Format() string {
	return "elf"
}

func (f *elfFile) DWARF() (*dwarf.Data, error) {
	f.dwarfOnce.Do(func() {
		f.dwarf, f.dwarfErr = f.f.DWARF()
	})
	return f.dwarf, f.dwarfErr
}

func (f *elfFile) SectionData(name string) ([]byte, error) {
	s := f.f.Section(name)
	if s == nil {
		return nil, fmt.Errorf("no section %s", name)
	}
	return s.Data()
}

// AsDebugElf is implemented by obj.File values backed by debug/elf, for
// callers that need format-specific access (e.g. to locate a build
// ID). AsDebugElf may return nil, so the caller must both check that
// the type implements AsDebugElf and check the result of calling it.
type AsDebugElf interface {
	AsDebugElf() *elf.File
}

func (f *elfFile) AsDebugElf() *elf.File {
	return f.f
}

var _ AsDebugElf = (*elfFile)(nil)
