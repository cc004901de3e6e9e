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

// CheckMinWork rejects bits that are easier than anything the retarget
// rules could have produced deltaTime seconds after a block that required
// baseBits. The legacy scheme checks this against the scrypt limit.
func CheckMinWork(params *Params, bits uint32, baseBits uint32, deltaTime int64, algo Algo) error {
	target, _, overflow := CompactToTarget(bits)
	if overflow {
		return &EncodingError{Bits: bits, Overflow: true}
	}
	if params.TargetTimespan <= 0 {
		return fmt.Errorf("%w: target timespan %d", ErrInvalidParams, params.TargetTimespan)
	}
	limit := params.PowLimit(algo)
	// Min-difficulty networks accept anything within the limit after a gap
	// of two target spacings
	if params.AllowMinDifficultyBlocks && deltaTime > params.TargetSpacing*2 {
		if target.Gt(limit) {
			return fmt.Errorf("%w: target %s above %s limit", ErrBelowMinimumWork, target.Hex(), algo)
		}
		return nil
	}
	result, _, _ := CompactToTarget(baseBits)
	four := uint256.NewInt(4)
	for deltaTime > 0 && result.Lt(limit) {
		// At most a 400% easing per period, in the best case one period
		// per four target timespans
		result.Mul(result, four)
		deltaTime -= params.TargetTimespan * 4
	}
	if result.Gt(limit) {
		result.Set(limit)
	}
	if target.Gt(result) {
		return fmt.Errorf(
			"%w: bits %08x easier than reachable %08x",
			ErrBelowMinimumWork,
			bits,
			TargetToCompact(result),
		)
	}
	return nil
}
