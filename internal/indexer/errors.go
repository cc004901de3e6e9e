// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package indexer

import "errors"

var ErrNotStarted = errors.New("indexer not started")

const (
	ReasonUnknownParent = "unknown-parent"
	ReasonTimeTooOld    = "time-too-old"
	ReasonBelowMinWork  = "below-min-work"
	ReasonNoRetarget    = "no-retarget"
	ReasonBadBits       = "bad-bits"
	ReasonBadPow        = "bad-pow"
	ReasonInternal      = "internal"
)

// RejectError is returned for headers that fail validation
type RejectError struct {
	Reason string
	Err    error
}

func reject(reason string, err error) *RejectError {
	return &RejectError{Reason: reason, Err: err}
}

func (e *RejectError) Error() string {
	return "header rejected: " + e.Reason + ": " + e.Err.Error()
}

func (e *RejectError) Unwrap() error {
	return e.Err
}
