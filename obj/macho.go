// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"debug/dwarf"
	"debug/macho"
	"fmt"
	"io"
	"sync"
)

type machoFile struct {
	c io.Closer
	f *macho.File

	dwarfOnce sync.Once
	dwarf     *dwarf.Data
	dwarfErr  error
}

func openMachO(r io.ReaderAt, c io.Closer) (bool, File, error) {
	magic, ok := readMagic(r, 4)
	if !ok {
		return false, nil, fmt.Errorf("short read identifying object file format")
	}
	// MachO 64-bit, little-endian magic (0xFEEDFACF). We don't bother
	// with the 32-bit or big-endian variants: nothing upstream of this
	// package runs on platforms that still produce them.
	if magic[0] != '\xCF' || magic[1] != '\xFA' || magic[2] != '\xED' || magic[3] != '\xFE' {
		return false, nil, nil
	}

	ff, err := macho.NewFile(r)
	if err != nil {
		return true, nil, err
	}
	return true, &machoFile{c: c, f: ff}, nil
}

func (f *machoFile) Close() error {
	return f.c.Close()
}

func (f *machoFile) Format() string {
	return "macho"
}

func (f *machoFile) DWARF() (*dwarf.Data, error) {
	f.dwarfOnce.Do(func() {
		f.dwarf, f.dwarfErr = f.f.DWARF()
	})
	return f.dwarf, f.dwarfErr
}

// SectionData accepts the ELF-style dotted DWARF section name (e.g.
// ".debug_abbrev") and translates it to Mach-O's convention
// ("__debug_abbrev") so callers don't need to know the difference.
func (f *machoFile) SectionData(name string) ([]byte, error) {
	macName := name
	if len(name) > 0 && name[0] == '.' {
		macName = "__" + name[1:]
	}
	s := f.f.Section(macName)
	if s == nil {
		return nil, fmt.Errorf("no section %s", name)
	}
	return s.Data()
}

// AsDebugMacho is implemented by obj.File values backed by
// debug/macho, for callers that need format-specific access.
// AsDebugMacho may return nil, so the caller must both check that the
// type implements AsDebugMacho and check the result of calling it.
type AsDebugMacho interface {
	AsDebugMacho() *macho.File
}

func (f *machoFile) AsDebugMacho() *macho.File {
	return f.f
}

var _ AsDebugMacho = (*machoFile)(nil)
