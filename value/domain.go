// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math/big"
)

// Domain is a strategy for rendering and naming an integer
// symbolically — as a DWARF tag, attribute, form, language, and so on.
// Two integers in the same domain compare by numeric value; domain
// identity participates in Int's own equality (an Int<17, DomainNone>
// and an Int<17, DomainTag> are different values even though their
// magnitudes match, mirroring dwgrep's distinction between a bare
// number and a typed DWARF constant).
type Domain struct {
	name    string
	byValue map[int64]string
	byName  map[string]int64
}

// NewDomain builds a Domain named name from a value->name table. The
// inverse name->value table is derived from it.
func NewDomain(name string, names map[int64]string) *Domain {
	d := &Domain{name: name, byValue: names, byName: make(map[string]int64, len(names))}
	for v, n := range names {
		d.byName[n] = v
	}
	return d
}

// Name returns the domain's name, e.g. "DW_TAG".
func (d *Domain) Name() string {
	if d == nil {
		return "int"
	}
	return d.name
}

// Render returns the symbolic name for n if known, else n's numeric
// form (hex, following dwgrep's convention for DWARF constants; the
// plain-integer domain renders decimal — see Int.Show).
func (d *Domain) Render(n *big.Int) string {
	if d == nil {
		return n.String()
	}
	if n.IsInt64() {
		if name, ok := d.byValue[n.Int64()]; ok {
			return name
		}
	}
	return fmt.Sprintf("0x%x", n)
}

// Lookup resolves a known constant name to its value within d.
func (d *Domain) Lookup(name string) (int64, bool) {
	if d == nil {
		return 0, false
	}
	v, ok := d.byName[name]
	return v, ok
}

// DomainNone is the domain of plain integer literals: no symbolic
// names, decimal rendering.
var DomainNone = (*Domain)(nil)

// The following domains back the lexer's known-constant recognition
// (§4.1) and the f_tag/f_form/... family of accessors. Each table is
// representative rather than exhaustive — dwgrep's own constant
// tables track the DWARF spec's full enumeration, which isn't this
// engine's concern; unrecognized codes still round-trip through the
// domain's numeric fallback.
var (
	DomainTag = NewDomain("DW_TAG", map[int64]string{
		0x01: "DW_TAG_array_type",
		0x04: "DW_TAG_enumeration_type",
		0x05: "DW_TAG_formal_parameter",
		0x08: "DW_TAG_imported_declaration",
		0x0b: "DW_TAG_lexical_block",
		0x0d: "DW_TAG_member",
		0x0f: "DW_TAG_pointer_type",
		0x10: "DW_TAG_reference_type",
		0x11: "DW_TAG_compile_unit",
		0x13: "DW_TAG_structure_type",
		0x15: "DW_TAG_subroutine_type",
		0x16: "DW_TAG_typedef",
		0x17: "DW_TAG_union_type",
		0x1d: "DW_TAG_inlined_subroutine",
		0x21: "DW_TAG_subrange_type",
		0x24: "DW_TAG_base_type",
		0x26: "DW_TAG_const_type",
		0x28: "DW_TAG_enumerator",
		0x2e: "DW_TAG_subprogram",
		0x34: "DW_TAG_variable",
		0x35: "DW_TAG_volatile_type",
		0x37: "DW_TAG_restrict_type",
		0x3d: "DW_TAG_imported_unit",
		0x3f: "DW_TAG_condition",
	})

	DomainAttr = NewDomain("DW_AT", map[int64]string{
		0x01: "DW_AT_sibling",
		0x02: "DW_AT_location",
		0x03: "DW_AT_name",
		0x0b: "DW_AT_byte_size",
		0x10: "DW_AT_stmt_list",
		0x11: "DW_AT_low_pc",
		0x12: "DW_AT_high_pc",
		0x13: "DW_AT_language",
		0x1c: "DW_AT_const_value",
		0x18: "DW_AT_import",
		0x25: "DW_AT_producer",
		0x27: "DW_AT_prototyped",
		0x2f: "DW_AT_upper_bound",
		0x34: "DW_AT_artificial",
		0x38: "DW_AT_data_member_location",
		0x39: "DW_AT_decl_column",
		0x3a: "DW_AT_decl_file",
		0x3b: "DW_AT_decl_line",
		0x3c: "DW_AT_declaration",
		0x3e: "DW_AT_encoding",
		0x3f: "DW_AT_external",
		0x40: "DW_AT_frame_base",
		0x49: "DW_AT_type",
		0x55: "DW_AT_ranges",
		0x6e: "DW_AT_linkage_name",
	})

	DomainForm = NewDomain("DW_FORM", map[int64]string{
		0x01: "DW_FORM_addr",
		0x03: "DW_FORM_block2",
		0x04: "DW_FORM_block4",
		0x05: "DW_FORM_data2",
		0x06: "DW_FORM_data4",
		0x07: "DW_FORM_data8",
		0x08: "DW_FORM_string",
		0x09: "DW_FORM_block",
		0x0a: "DW_FORM_block1",
		0x0b: "DW_FORM_data1",
		0x0c: "DW_FORM_flag",
		0x0d: "DW_FORM_sdata",
		0x0e: "DW_FORM_strp",
		0x0f: "DW_FORM_udata",
		0x10: "DW_FORM_ref_addr",
		0x11: "DW_FORM_ref1",
		0x12: "DW_FORM_ref2",
		0x13: "DW_FORM_ref4",
		0x14: "DW_FORM_ref8",
		0x15: "DW_FORM_ref_udata",
		0x16: "DW_FORM_indirect",
		0x17: "DW_FORM_sec_offset",
		0x18: "DW_FORM_exprloc",
		0x19: "DW_FORM_flag_present",
		0x1a: "DW_FORM_strx",
		0x1b: "DW_FORM_addrx",
		0x21: "DW_FORM_implicit_const",
		0x1f: "DW_FORM_line_strp",
		0x20: "DW_FORM_ref_sig8",
	})

	DomainLang = NewDomain("DW_LANG", map[int64]string{
		0x0001: "DW_LANG_C89",
		0x0002: "DW_LANG_C",
		0x0004: "DW_LANG_C_plus_plus",
		0x0016: "DW_LANG_Go",
		0x000c: "DW_LANG_C99",
		0x001d: "DW_LANG_C11",
		0x0021: "DW_LANG_C_plus_plus_14",
	})

	DomainInl = NewDomain("DW_INL", map[int64]string{
		0: "DW_INL_not_inlined",
		1: "DW_INL_inlined",
		2: "DW_INL_declared_not_inlined",
		3: "DW_INL_declared_inlined",
	})

	DomainAte = NewDomain("DW_ATE", map[int64]string{
		0x01: "DW_ATE_address",
		0x02: "DW_ATE_boolean",
		0x04: "DW_ATE_float",
		0x05: "DW_ATE_signed",
		0x06: "DW_ATE_signed_char",
		0x07: "DW_ATE_unsigned",
		0x08: "DW_ATE_unsigned_char",
	})

	DomainAccess = NewDomain("DW_ACCESS", map[int64]string{
		1: "DW_ACCESS_public",
		2: "DW_ACCESS_protected",
		3: "DW_ACCESS_private",
	})

	DomainVis = NewDomain("DW_VIS", map[int64]string{
		1: "DW_VIS_local",
		2: "DW_VIS_exported",
		3: "DW_VIS_qualified",
	})

	DomainVirtuality = NewDomain("DW_VIRTUALITY", map[int64]string{
		0: "DW_VIRTUALITY_none",
		1: "DW_VIRTUALITY_virtual",
		2: "DW_VIRTUALITY_pure_virtual",
	})

	DomainID = NewDomain("DW_ID", map[int64]string{
		0: "DW_ID_case_sensitive",
		1: "DW_ID_up_case",
		2: "DW_ID_down_case",
		3: "DW_ID_case_insensitive",
	})

	DomainCC = NewDomain("DW_CC", map[int64]string{
		0x01: "DW_CC_normal",
		0x02: "DW_CC_program",
		0x03: "DW_CC_nocall",
	})

	DomainOrd = NewDomain("DW_ORD", map[int64]string{
		0: "DW_ORD_row_major",
		1: "DW_ORD_col_major",
	})

	DomainDsc = NewDomain("DW_DSC", map[int64]string{
		0: "DW_DSC_label",
		1: "DW_DSC_range",
	})

	DomainDs = NewDomain("DW_DS", map[int64]string{
		0x01: "DW_DS_unsigned",
		0x02: "DW_DS_leading_overpunch",
		0x03: "DW_DS_trailing_overpunch",
		0x04: "DW_DS_leading_separate",
		0x05: "DW_DS_trailing_separate",
	})

	DomainOp = NewDomain("DW_OP", map[int64]string{
		0x03: "DW_OP_addr",
		0x06: "DW_OP_deref",
		0x08: "DW_OP_const1u",
		0x09: "DW_OP_const1s",
		0x0a: "DW_OP_const2u",
		0x0b: "DW_OP_const2s",
		0x0c: "DW_OP_const4u",
		0x0d: "DW_OP_const4s",
		0x10: "DW_OP_constu",
		0x11: "DW_OP_consts",
		0x1c: "DW_OP_minus",
		0x22: "DW_OP_plus",
		0x23: "DW_OP_plus_uconst",
		0x91: "DW_OP_fbreg",
		0x9c: "DW_OP_call_frame_cfa",
		0x9f: "DW_OP_stack_value",
	})

	DomainEnd = NewDomain("DW_END", map[int64]string{
		0: "DW_END_default",
		1: "DW_END_big",
		2: "DW_END_little",
	})

	// DomainAddr holds the single synthetic constant DW_ADDR_none,
	// used by the query language to denote "no load address" — see
	// §4.1's glossary of known-constant prefixes.
	DomainAddr = NewDomain("DW_ADDR", map[int64]string{
		0: "DW_ADDR_none",
	})
)

// domainsByPrefix lists the known-constant domains with the
// identifier prefix each one covers. LookupConstant (called from
// lang.parseIdentAtom) tries them in this order by exact name; the
// prefix field is not consulted.
var domainsByPrefix = []struct {
	prefix string
	domain *Domain
}{
	{"DW_TAG_", DomainTag},
	{"DW_AT_", DomainAttr},
	{"DW_FORM_", DomainForm},
	{"DW_LANG_", DomainLang},
	{"DW_INL_", DomainInl},
	{"DW_ATE_", DomainAte},
	{"DW_ACCESS_", DomainAccess},
	{"DW_VIS_", DomainVis},
	{"DW_VIRTUALITY_", DomainVirtuality},
	{"DW_ID_", DomainID},
	{"DW_CC_", DomainCC},
	{"DW_ORD_", DomainOrd},
	{"DW_DSC_", DomainDsc},
	{"DW_DS_", DomainDs},
	{"DW_OP_", DomainOp},
	{"DW_END_", DomainEnd},
	{"DW_ADDR_", DomainAddr},
}

// LookupConstant resolves a known DWARF constant identifier (e.g.
// "DW_TAG_compile_unit") to its domain and numeric value.
func LookupConstant(ident string) (*Domain, int64, bool) {
	for _, cand := range domainsByPrefix {
		if v, ok := cand.domain.Lookup(ident); ok {
			return cand.domain, v, true
		}
	}
	return nil, 0, false
}
