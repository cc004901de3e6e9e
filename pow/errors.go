// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"errors"
	"fmt"
)

var (
	// ErrBelowMinimumWork means the claimed bits are invalid or easier than
	// the algorithm allows
	ErrBelowMinimumWork = errors.New("bits below minimum work")
	// ErrHashMismatch means the hash does not satisfy the claimed bits
	ErrHashMismatch = errors.New("hash doesn't match bits")
	// ErrInsufficientHistory means a backward walk ran off the start of
	// the available chain
	ErrInsufficientHistory = errors.New("insufficient chain history")
	// ErrNoRetargetRule means no retarget branch applies to the network
	ErrNoRetargetRule = errors.New("no retarget rule for network")
	ErrUnknownAlgo    = errors.New("unknown algorithm")
	ErrInvalidParams  = errors.New("invalid chain parameters")
)

// EncodingError reports a compact value that decodes to a negative or
// overflowing target
type EncodingError struct {
	Bits     uint32
	Negative bool
	Overflow bool
}

func (e *EncodingError) Error() string {
	switch {
	case e.Negative && e.Overflow:
		return fmt.Sprintf("compact bits %08x: negative and overflowing", e.Bits)
	case e.Negative:
		return fmt.Sprintf("compact bits %08x: negative", e.Bits)
	default:
		return fmt.Sprintf("compact bits %08x: overflow", e.Bits)
	}
}
