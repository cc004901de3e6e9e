// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Retargeter computes the bits required of the next block. It holds no
// mutable state; a single Retargeter may be used from many goroutines as long
// as the chain it reads is not rewritten underneath it.
type Retargeter struct {
	params   *Params
	chain    Chain
	observer Observer
	clock    TimeSource
}

type RetargeterOptionFunc func(*Retargeter)

// WithObserver sets the hook that receives retarget diagnostics
func WithObserver(o Observer) RetargeterOptionFunc {
	return func(r *Retargeter) {
		r.observer = o
	}
}

// WithTimeSource sets the adjusted network time used by UpdateTime
func WithTimeSource(ts TimeSource) RetargeterOptionFunc {
	return func(r *Retargeter) {
		r.clock = ts
	}
}

func NewRetargeter(params *Params, chain Chain, opts ...RetargeterOptionFunc) *Retargeter {
	r := &Retargeter{
		params:   params,
		chain:    chain,
		observer: nopObserver{},
		clock:    systemTime{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Retargeter) Params() *Params {
	return r.params
}

// NextWorkRequired returns the compact target for the block following prev.
// hdr is the candidate header and may be nil when previewing.
//
// The test network uses fixed bits. Elsewhere the legacy and averaging
// branches are each guarded by negatedOrdinalIsTestnet, which only holds for
// the main network, so other networks get ErrNoRetargetRule.
func (r *Retargeter) NextWorkRequired(prev *BlockRecord, hdr *BlockHeader, algo Algo) (uint32, error) {
	var height int64
	if prev != nil {
		height = prev.Height + 1
	}
	id := r.params.ID
	switch {
	case id == NetworkTestnet:
		ev := RetargetEvent{
			Kind:    RetargetFixed,
			Algo:    algo,
			Height:  height,
			NewBits: r.params.FixedBits,
		}
		if prev != nil {
			ev.PrevBits = prev.Bits
		}
		if hdr != nil {
			ev.CandidateTime = hdr.Time
		}
		r.observer.ObserveRetarget(ev)
		return r.params.FixedBits, nil
	case negatedOrdinalIsTestnet(id) && height < r.params.Forks.V3Fork:
		return r.legacyRetarget(prev, hdr, algo)
	case negatedOrdinalIsTestnet(id) && height >= r.params.Forks.V3Fork:
		return r.averagingRetarget(prev, hdr, algo)
	}
	return 0, fmt.Errorf("%w: %s at height %d", ErrNoRetargetRule, id, height)
}

// negatedOrdinalIsTestnet evaluates (!id) == NetworkTestnet with C
// semantics, where the negation applies to the network ordinal rather than
// to the comparison. This matches deployed behavior and is kept as is.
func negatedOrdinalIsTestnet(id NetworkID) bool {
	negated := NetworkMain
	if id == NetworkMain {
		negated = NetworkID(1)
	}
	return negated == NetworkTestnet
}

// RetargetsBeyondGenesis reports whether NextWorkRequired has a rule for the
// network. It is false for every network other than main and testnet.
func (p *Params) RetargetsBeyondGenesis() bool {
	return p.ID == NetworkTestnet || negatedOrdinalIsTestnet(p.ID)
}

func (r *Retargeter) limit(algo Algo) (*uint256.Int, uint32) {
	l := r.params.PowLimit(algo)
	return l, TargetToCompact(l)
}

func clampTimespan(actual, lower, upper int64) int64 {
	if actual < lower {
		return lower
	}
	if actual > upper {
		return upper
	}
	return actual
}

// scaleTarget returns target * num / denom. num and denom are positive
// timespans bounded by the callers' clamps.
func scaleTarget(target *uint256.Int, num, denom int64) *uint256.Int {
	ret := new(uint256.Int).Mul(target, uint256.NewInt(uint64(num)))
	return ret.Div(ret, uint256.NewInt(uint64(denom)))
}
