// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "fmt"

// TypeMismatchError reports that an operator ran against a slot
// holding the wrong value variant.
type TypeMismatchError struct {
	Op       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Expected, e.Got)
}

// DivisionByZeroError reports a division or modulo by zero.
type DivisionByZeroError struct{ Op string }

func (e *DivisionByZeroError) Error() string { return e.Op + ": division by zero" }

// PredicateFailureError reports that a predicate returned *fail*
// (operated on a slot of the wrong variant).
type PredicateFailureError struct {
	Pred string
	Got  string
}

func (e *PredicateFailureError) Error() string {
	return fmt.Sprintf("predicate %s failed: unexpected value %s", e.Pred, e.Got)
}
