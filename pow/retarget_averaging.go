// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"github.com/holiman/uint256"
)

// Only 1/averagingDampening of the observed deviation from the averaging
// target timespan is let through per block
const averagingDampening = 6

// AveragingRetarget is the per-block multi-algorithm retarget used from the
// V3 fork. A window shared by all algorithms sets the global trend and a
// per-algorithm step corrects for hash power moving between algorithms.
func (r *Retargeter) AveragingRetarget(prev *BlockRecord, algo Algo) (uint32, error) {
	return r.averagingRetarget(prev, nil, algo)
}

func (r *Retargeter) averagingRetarget(prev *BlockRecord, hdr *BlockHeader, algo Algo) (uint32, error) {
	avg := r.params.Averaging
	limit, limitBits := r.limit(algo)
	if prev == nil {
		return limitBits, nil
	}
	ev := RetargetEvent{
		Kind:           RetargetAveraging,
		Algo:           algo,
		Height:         prev.Height + 1,
		PrevBits:       prev.Bits,
		TargetTimespan: avg.TargetTimespan(),
	}
	if hdr != nil {
		ev.CandidateTime = hdr.Time
	}
	first := ancestor(r.chain, prev, NumAlgos*avg.Interval)
	prevAlgo := lastForAlgo(r.chain, prev, algo)
	if first == nil || prevAlgo == nil {
		ev.InsufficientHistory = true
		ev.NewBits = limitBits
		ev.After = *limit
		r.observer.ObserveRetarget(ev)
		return limitBits, nil
	}
	// Medians resist time-warp attacks
	actual := prev.MedianTimePast - first.MedianTimePast
	actual = avg.TargetTimespan() + (actual-avg.TargetTimespan())/averagingDampening
	actual = clampTimespan(actual, avg.MinActualTimespan(), avg.MaxActualTimespan())

	before, _, _ := CompactToTarget(prevAlgo.Bits)
	after := scaleTarget(before, actual, avg.TargetTimespan())
	adjustments := prevAlgo.Height - prev.Height + NumAlgos - 1
	adjustTarget(after, adjustments, avg.LocalAdjustment)
	if after.Gt(limit) {
		after.Set(limit)
	}
	newBits := TargetToCompact(after)
	ev.Retargeted = true
	ev.NewBits = newBits
	ev.Before = *before
	ev.After = *after
	ev.ActualTimespan = actual
	ev.Adjustments = adjustments
	r.observer.ObserveRetarget(ev)
	return newBits, nil
}

// adjustTarget applies the per-algorithm step in place. Positive adjustments
// make the target harder by 100/(100+pct) each, negative ones ease it by the
// inverse. Multiplication wraps at 256 bits exactly like the fixed-width
// arithmetic deployed nodes use.
func adjustTarget(target *uint256.Int, adjustments int64, pct int64) {
	step := uint256.NewInt(uint64(100 + pct))
	hundred := uint256.NewInt(100)
	for ; adjustments > 0; adjustments-- {
		target.Div(target, step)
		target.Mul(target, hundred)
	}
	for ; adjustments < 0; adjustments++ {
		target.Mul(target, step)
		target.Div(target, hundred)
	}
}
