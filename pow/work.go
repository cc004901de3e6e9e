// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"github.com/holiman/uint256"
)

// ProofIncrement returns the work a block with the given bits adds to its
// chain, 2^256 / (target+1). Since 2^256 does not fit in 256 bits this is
// computed as ~target / (target+1) + 1. Invalid or zero targets add no work.
func ProofIncrement(bits uint32) *uint256.Int {
	target, negative, overflow := CompactToTarget(bits)
	if negative || overflow || target.IsZero() {
		return new(uint256.Int)
	}
	denom := new(uint256.Int).AddUint64(target, 1)
	work := new(uint256.Int).Not(target)
	work.Div(work, denom)
	return work.AddUint64(work, 1)
}

// ChainWork returns parent plus the work of a block with the given bits
func ChainWork(parent *uint256.Int, bits uint32) *uint256.Int {
	return new(uint256.Int).Add(parent, ProofIncrement(bits))
}
