// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine wires the lexer/parser, stack-effect analyzer, and
// operator builder into a single entry point (§4.4): compile a query
// once, then drive it to a lazy sequence of results.
package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclements/go-dwgrep/analysis"
	"github.com/aclements/go-dwgrep/dwgraph"
	"github.com/aclements/go-dwgrep/lang"
	"github.com/aclements/go-dwgrep/ops"
	"github.com/aclements/go-dwgrep/value"
)

// Options configures a compiled query. There is no file- or
// environment-sourced configuration layer: go-dwgrep is consumed as a
// Go API, and every knob a caller needs is a field here.
type Options struct {
	// Brief renders values the way §6 describes "brief": the T_
	// variant prefix stripped and DIE attribute lists omitted.
	Brief bool

	// Messages, if non-nil, receives one line per error encountered
	// while driving a result iterator, mirroring the CLI driver's
	// --no-messages/--quiet toggle (§6) without adopting a logging
	// package for a library with no log sink of its own.
	Messages io.Writer
}

// Query is a parsed, analyzed, and simplified program (§4.4 steps
// 1-3), ready to be built into an operator DAG and driven.
type Query struct {
	tree *lang.Node
	nsz  int
	g    *dwgraph.Graph
	opts Options
}

// Compile lexes, parses, analyzes, and peephole-simplifies src,
// binding it to the graph provider g (§4.4).
func Compile(src string, g *dwgraph.Graph, opts Options) (*Query, error) {
	tree, err := lang.Parse(src)
	if err != nil {
		return nil, err
	}
	nsz, err := analysis.Analyze(tree)
	if err != nil {
		return nil, err
	}
	tree = analysis.Simplify(tree)
	return &Query{tree: tree, nsz: nsz, g: g, opts: opts}, nil
}

// Tree returns the analyzed, simplified syntax tree, in the §6
// parenthesized dump form tests assert against.
func (q *Query) Tree() *lang.Node { return q.tree }

// Run builds the operator DAG (§4.4 step 4) and returns a lazy
// iterator over its results (§4.4 step 5).
func (q *Query) Run() *Results {
	return &Results{op: ops.Build(q.tree, q.g, q.nsz), opts: q.opts}
}

// Results is a lazy, single-pass iterator over a query's output
// valfiles, driven entirely by the consumer (§5: "single-threaded
// cooperative pull" — no suspension, no background goroutine).
type Results struct {
	op   ops.Op
	opts Options
	err  error
}

// Next advances to the next result, returning (valfile, true) on
// success, (nil, false) once exhausted or after the first error. Err
// reports the error, if any, that ended iteration.
func (r *Results) Next() (*value.Valfile, bool) {
	if r.err != nil {
		return nil, false
	}
	vf, err := r.op.Next()
	if err != nil {
		r.err = err
		if r.opts.Messages != nil {
			fmt.Fprintln(r.opts.Messages, err)
		}
		return nil, false
	}
	if vf == nil {
		return nil, false
	}
	return vf, true
}

// Err returns the error that ended iteration, if any (§7: "the
// engine entry converts them to a single error value surfaced
// through the result iterator").
func (r *Results) Err() error { return r.err }

// NextText advances to the next result and renders it with Render,
// the convenience most callers want.
func (r *Results) NextText() (string, bool) {
	vf, ok := r.Next()
	if !ok {
		return "", false
	}
	return Render(vf, r.opts.Brief), true
}

// Render renders a result valfile per the default format (§4.4 step
// 5): every occupied slot's Show rendering, space-separated, left to
// right.
func Render(vf *value.Valfile, brief bool) string {
	var parts []string
	for i := 0; i < vf.Size(); i++ {
		v := vf.At(i)
		if v == nil {
			continue
		}
		parts = append(parts, v.Show(brief))
	}
	return strings.Join(parts, " ")
}
