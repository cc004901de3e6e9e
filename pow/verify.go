// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/holiman/uint256"
)

// Hash is a block hash in internal (little-endian) byte order
type Hash [32]byte

// String returns the hash in the conventional byte-reversed display order
func (h Hash) String() string {
	r := h
	slices.Reverse(r[:])
	return hex.EncodeToString(r[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	tmp, err := HashFromString(string(text))
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}

// Target returns the hash as a number for comparison with a target
func (h Hash) Target() *uint256.Int {
	r := h
	slices.Reverse(r[:])
	return new(uint256.Int).SetBytes32(r[:])
}

// HashFromString parses a hash in display order
func HashFromString(s string) (Hash, error) {
	var ret Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return ret, err
	}
	if len(b) != len(ret) {
		return ret, fmt.Errorf("hash must be %d bytes, got %d", len(ret), len(b))
	}
	slices.Reverse(b)
	copy(ret[:], b)
	return ret, nil
}

// CheckProofOfWork validates a block hash against its claimed bits. The bits
// must decode to a positive target within the algorithm's limit
// (ErrBelowMinimumWork) and the hash must not exceed it (ErrHashMismatch).
func CheckProofOfWork(params *Params, hash *uint256.Int, bits uint32, algo Algo) error {
	target, err := TargetFromCompact(bits)
	if err != nil {
		return fmt.Errorf("algo=%s: %w: %w", algo, ErrBelowMinimumWork, err)
	}
	if target.IsZero() || target.Gt(params.PowLimit(algo)) {
		return fmt.Errorf("algo=%s: %w: bits %08x", algo, ErrBelowMinimumWork, bits)
	}
	if hash.Gt(target) {
		return fmt.Errorf("algo=%s: %w", algo, ErrHashMismatch)
	}
	return nil
}
