// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"fmt"
)

// LegacyRetarget is the periodic retarget used before the V3 fork. Each
// era retargets once per interval over the raw timestamps of the last
// interval's worth of blocks.
func (r *Retargeter) LegacyRetarget(prev *BlockRecord, algo Algo) (uint32, error) {
	return r.legacyRetarget(prev, nil, algo)
}

func (r *Retargeter) legacyRetarget(prev *BlockRecord, hdr *BlockHeader, algo Algo) (uint32, error) {
	limit, limitBits := r.limit(algo)
	if r.params.ID == NetworkTestnet {
		return limitBits, nil
	}
	// Genesis
	if prev == nil {
		return limitBits, nil
	}
	height := prev.Height + 1
	era := r.params.legacyEraAt(height)
	if era.interval <= 0 || era.targetTimespan <= 0 {
		return 0, fmt.Errorf("%w: legacy interval %d", ErrInvalidParams, era.interval)
	}
	ev := RetargetEvent{
		Kind:           RetargetLegacy,
		Algo:           algo,
		Height:         height,
		PrevBits:       prev.Bits,
		NewBits:        prev.Bits,
		TargetTimespan: era.targetTimespan,
	}
	if hdr != nil {
		ev.CandidateTime = hdr.Time
	}
	if height%era.interval != 0 {
		r.observer.ObserveRetarget(ev)
		return prev.Bits, nil
	}
	// Go back the full period unless this is the first retarget after
	// genesis, so a 51% miner cannot move difficulty with one block
	back := era.interval
	if height == era.interval {
		back = era.interval - 1
	}
	first := ancestor(r.chain, prev, back)
	if first == nil {
		return 0, fmt.Errorf(
			"%w: legacy retarget at height %d needs %d ancestors",
			ErrInsufficientHistory,
			height,
			back,
		)
	}
	actual := clampTimespan(prev.Time-first.Time, era.minActual, era.maxActual)
	before, _, _ := CompactToTarget(prev.Bits)
	after := scaleTarget(before, actual, era.targetTimespan)
	if after.Gt(limit) {
		after.Set(limit)
	}
	newBits := TargetToCompact(after)
	ev.Retargeted = true
	ev.NewBits = newBits
	ev.Before = *before
	ev.After = *after
	ev.ActualTimespan = actual
	r.observer.ObserveRetarget(ev)
	return newBits, nil
}
