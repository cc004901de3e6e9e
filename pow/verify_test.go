// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/holiman/uint256"
)

func mainParams(t *testing.T) *pow.Params {
	t.Helper()
	params, err := pow.SelectNetwork("main")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return params
}

func TestCheckProofOfWorkZeroHash(t *testing.T) {
	params := mainParams(t)
	for algo := pow.Algo(0); algo < pow.NumAlgos; algo++ {
		bits := pow.TargetToCompact(params.PowLimit(algo))
		if err := pow.CheckProofOfWork(params, new(uint256.Int), bits, algo); err != nil {
			t.Fatalf("zero hash rejected for %s: %s", algo, err)
		}
	}
}

func TestCheckProofOfWorkAboveLimit(t *testing.T) {
	params := mainParams(t)
	aboveLimit := new(uint256.Int).Lsh(params.PowLimit(pow.AlgoScrypt), 8)
	bits := pow.TargetToCompact(aboveLimit)
	hashes := []*uint256.Int{
		new(uint256.Int),
		uint256.NewInt(1),
		aboveLimit,
	}
	for _, hash := range hashes {
		err := pow.CheckProofOfWork(params, hash, bits, pow.AlgoScrypt)
		if !errors.Is(err, pow.ErrBelowMinimumWork) {
			t.Fatalf("expected ErrBelowMinimumWork for hash %s, got %v", hash.Hex(), err)
		}
	}
}

func TestCheckProofOfWorkRejections(t *testing.T) {
	params := mainParams(t)
	testDefs := []struct {
		name     string
		hash     *uint256.Int
		bits     uint32
		algo     pow.Algo
		expected error
	}{
		{
			name:     "zero target",
			hash:     new(uint256.Int),
			bits:     0,
			algo:     pow.AlgoSHA256D,
			expected: pow.ErrBelowMinimumWork,
		},
		{
			name:     "negative",
			hash:     new(uint256.Int),
			bits:     0x1c8fffff,
			algo:     pow.AlgoSHA256D,
			expected: pow.ErrBelowMinimumWork,
		},
		{
			name:     "overflow",
			hash:     new(uint256.Int),
			bits:     0x23000001,
			algo:     pow.AlgoX11,
			expected: pow.ErrBelowMinimumWork,
		},
		{
			name:     "unknown algo",
			hash:     new(uint256.Int),
			bits:     0x1c00ffff,
			algo:     pow.Algo(7),
			expected: pow.ErrBelowMinimumWork,
		},
		{
			name:     "hash above target",
			hash:     new(uint256.Int).Lsh(uint256.NewInt(1), 220),
			bits:     0x1c00ffff,
			algo:     pow.AlgoScrypt,
			expected: pow.ErrHashMismatch,
		},
		{
			name: "hash equal to target",
			hash: new(uint256.Int).Lsh(uint256.NewInt(0xffff), 200),
			bits: 0x1c00ffff,
			algo: pow.AlgoScrypt,
		},
	}
	for _, td := range testDefs {
		err := pow.CheckProofOfWork(params, td.hash, td.bits, td.algo)
		if td.expected == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error: %s", td.name, err)
			}
			continue
		}
		if !errors.Is(err, td.expected) {
			t.Fatalf("%s: got %v, want %v", td.name, err, td.expected)
		}
	}
	// The two rejection reasons are distinguishable
	err := pow.CheckProofOfWork(params, uint256.NewInt(1), 0x04923456, pow.AlgoScrypt)
	if errors.Is(err, pow.ErrHashMismatch) {
		t.Fatalf("encoding failure reported as hash mismatch: %s", err)
	}
	var encErr *pow.EncodingError
	if !errors.As(err, &encErr) || !encErr.Negative {
		t.Fatalf("expected wrapped negative EncodingError, got %v", err)
	}
}

func TestHashString(t *testing.T) {
	s := "00000000000000000003e4a2c1d5b8d5a0ff7f0e9d9fe8b2d4b8a1c1d2e3f4a5"
	h, err := pow.HashFromString(s)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if h[31] != 0 || h[0] != 0xa5 {
		t.Fatalf("hash bytes not stored little-endian: %x", h[:])
	}
	if h.String() != s {
		t.Fatalf("got %s, want %s", h.String(), s)
	}
	if h.Target().Cmp(mustHex(t, "0x3e4a2c1d5b8d5a0ff7f0e9d9fe8b2d4b8a1c1d2e3f4a5")) != 0 {
		t.Fatalf("unexpected numeric value %s", h.Target().Hex())
	}
	if _, err := pow.HashFromString("abcd"); err == nil {
		t.Fatalf("expected error for short hash")
	}
}
