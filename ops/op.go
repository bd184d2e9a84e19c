// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ops implements the operator DAG the analyzed syntax tree
// compiles to (§4.3): a pull-based pipeline of nodes, each exposing a
// single Next() that returns the next satisfying valfile or signals
// exhaustion.
package ops

import "github.com/aclements/go-dwgrep/value"

// Op is one node of the operator DAG. Next returns the next valfile
// this operator produces, or (nil, nil) once exhausted. After
// exhaustion, subsequent calls must keep returning (nil, nil) (§4.3:
// "purity of production").
type Op interface {
	Next() (*value.Valfile, error)
}

// origin produces exactly one empty valfile, then is exhausted. It's
// the leaf upstream of every operator DAG.
type origin struct {
	nsz   int
	done  bool
}

func newOrigin(nsz int) *origin { return &origin{nsz: nsz} }

func (o *origin) Next() (*value.Valfile, error) {
	if o.done {
		return nil, nil
	}
	o.done = true
	return value.NewValfile(o.nsz), nil
}

// nop forwards its upstream verbatim.
type nop struct{ upstream Op }

func (o *nop) Next() (*value.Valfile, error) { return o.upstream.Next() }
