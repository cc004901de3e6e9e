// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"github.com/holiman/uint256"
)

const (
	compactSignBit      = 0x00800000
	compactMantissaMask = 0x007fffff
)

// CompactToTarget converts a compact (nBits) value to a 256-bit target.
// The first byte is the exponent, the next 3 bytes are the mantissa, and
// bit 0x00800000 is the sign. Target = mantissa * 256^(exp-3).
//
// The negative and overflow flags are reported separately rather than
// folded into the returned value. A caller must treat either flag as a
// rejection. The returned target is truncated to 256 bits when overflow is
// set.
func CompactToTarget(bits uint32) (target *uint256.Int, negative bool, overflow bool) {
	exponent := uint(bits >> 24)
	word := bits & compactMantissaMask
	target = new(uint256.Int)
	if exponent <= 3 {
		word >>= 8 * (3 - exponent)
		target.SetUint64(uint64(word))
	} else {
		target.SetUint64(uint64(word))
		target.Lsh(target, 8*(exponent-3))
	}
	negative = word != 0 && bits&compactSignBit != 0
	overflow = word != 0 && (exponent > 34 ||
		(word > 0xff && exponent > 33) ||
		(word > 0xffff && exponent > 32))
	return target, negative, overflow
}

// TargetFromCompact is CompactToTarget for callers that only want valid
// targets. A negative or overflowing encoding returns an *EncodingError.
func TargetFromCompact(bits uint32) (*uint256.Int, error) {
	target, negative, overflow := CompactToTarget(bits)
	if negative || overflow {
		return nil, &EncodingError{
			Bits:     bits,
			Negative: negative,
			Overflow: overflow,
		}
	}
	return target, nil
}

// TargetToCompact packs a 256-bit target into its compact form. Only the 3
// most significant bytes survive, so the conversion is lossy, but
// TargetToCompact(CompactToTarget(TargetToCompact(v))) == TargetToCompact(v).
func TargetToCompact(target *uint256.Int) uint32 {
	size := uint((target.BitLen() + 7) / 8)
	var compact uint32
	if size <= 3 {
		compact = uint32(target.Uint64() << (8 * (3 - size)))
	} else {
		compact = uint32(new(uint256.Int).Rsh(target, 8*(size-3)).Uint64())
	}
	// A mantissa with the sign bit set would read back as negative, so
	// shift it down a byte and grow the exponent instead
	if compact&compactSignBit != 0 {
		compact >>= 8
		size++
	}
	return compact | uint32(size)<<24
}

// maxTarget returns 2^256-1 shifted right by n bits
func maxTarget(n uint) uint256.Int {
	var t uint256.Int
	t.Not(&t)
	t.Rsh(&t, n)
	return t
}
