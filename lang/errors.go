// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lang

import "fmt"

// ParseError reports malformed query source, carrying the byte
// position at which parsing gave up and a description of what was
// expected there.
type ParseError struct {
	Pos      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: expected %s, found %s", e.Pos, e.Expected, e.Found)
}
