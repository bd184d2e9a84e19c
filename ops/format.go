// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"strings"

	"github.com/aclements/go-dwgrep/value"
)

// formatPiece is one component of a format string (§4.3, FORMAT):
// either a literal run of text, or a splice whose first result is
// rendered in its place.
type formatPiece struct {
	literal   string
	isSplice  bool
	buildBody func(Op) Op
	bodyNsz   int
}

// formatOp implements "..."/r"..." literals with %(...%) splices: it
// renders each piece against the current input and pushes the
// concatenation as a Str.
type formatOp struct {
	upstream Op
	pieces   []formatPiece
	src, dst int
}

func newFormatOp(upstream Op, pieces []formatPiece, src, dst int) *formatOp {
	return &formatOp{upstream: upstream, pieces: pieces, src: src, dst: dst}
}

func (o *formatOp) Next() (*value.Valfile, error) {
	vf, err := o.upstream.Next()
	if vf == nil || err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, p := range o.pieces {
		if !p.isSplice {
			b.WriteString(p.literal)
			continue
		}
		seed := value.NewValfile(p.bodyNsz)
		seed.Set(0, vf.At(o.src).Clone())
		body := p.buildBody(&single{vf: seed})
		out, err := body.Next()
		if err != nil {
			return nil, err
		}
		if out != nil {
			b.WriteString(out.Top().Show(true))
		}
	}
	vf.Set(o.dst, value.NewStr(b.String()))
	return vf, nil
}
