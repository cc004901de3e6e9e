// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"github.com/holiman/uint256"
)

// BlockRecord is one accepted block as seen by the retarget code. Records
// are immutable once they are part of a chain.
type BlockRecord struct {
	Height         int64
	Time           int64
	MedianTimePast int64
	Bits           uint32
	Algo           Algo
	Version        int32
	Hash           Hash
	// ChainWork is the cumulative work up to and including this block
	ChainWork uint256.Int
}

// Chain gives read-only access to the predecessor of a record. Prev returns
// nil at the start of the available history.
type Chain interface {
	Prev(rec *BlockRecord) *BlockRecord
}

// AlgoLocator is implemented by chains that can find the most recent record
// mined with an algorithm without walking
type AlgoLocator interface {
	LastForAlgo(rec *BlockRecord, algo Algo) *BlockRecord
}

// AncestorLocator is implemented by chains with random access by height
type AncestorLocator interface {
	Ancestor(rec *BlockRecord, n int64) *BlockRecord
}

// ancestor walks n records back from rec, returning nil if the history runs
// out first
func ancestor(chain Chain, rec *BlockRecord, n int64) *BlockRecord {
	if l, ok := chain.(AncestorLocator); ok {
		return l.Ancestor(rec, n)
	}
	for i := int64(0); rec != nil && i < n; i++ {
		rec = chain.Prev(rec)
	}
	return rec
}

// lastForAlgo returns the most recent record at or before rec mined with
// algo, or nil if there is none
func lastForAlgo(chain Chain, rec *BlockRecord, algo Algo) *BlockRecord {
	if l, ok := chain.(AlgoLocator); ok {
		return l.LastForAlgo(rec, algo)
	}
	for rec != nil && rec.Algo != algo {
		rec = chain.Prev(rec)
	}
	return rec
}
