// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import "fmt"

// UnbalancedError reports that an alternation's branches disagree on
// their net stack effect, or that a closure's body doesn't have
// net-zero stack effect.
type UnbalancedError struct {
	Msg string
}

func (e *UnbalancedError) Error() string { return "unbalanced: " + e.Msg }

// UnderrunError reports that an operator would read or pop below the
// bottom of its enclosing scope's stack.
type UnderrunError struct {
	Need, Have int
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("underrun: need %d slots, have %d", e.Need, e.Have)
}
