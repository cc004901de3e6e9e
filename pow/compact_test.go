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

func mustHex(t *testing.T, hexStr string) *uint256.Int {
	t.Helper()
	ret, err := uint256.FromHex(hexStr)
	if err != nil {
		t.Fatalf("unexpected error parsing hex %s: %s", hexStr, err)
	}
	return ret
}

func TestCompactToTarget(t *testing.T) {
	testDefs := []struct {
		bits     uint32
		expected string
		negative bool
		overflow bool
	}{
		{
			bits:     0x1d00ffff,
			expected: "0xffff0000000000000000000000000000000000000000000000000000",
		},
		{
			bits:     0x03030000,
			expected: "0x30000",
		},
		{
			// Exponent 1 shifts the mantissa out entirely
			bits:     0x01003456,
			expected: "0x0",
		},
		{
			bits:     0x04123456,
			expected: "0x12345600",
		},
		{
			bits:     0x05009234,
			expected: "0x92340000",
		},
		{
			bits:     0x01fedcba,
			expected: "0x7e",
			negative: true,
		},
		{
			bits:     0x04923456,
			expected: "0x12345600",
			negative: true,
		},
		{
			// Sign bit on a zero mantissa is not negative
			bits:     0x00800000,
			expected: "0x0",
		},
		{
			bits:     0x20123456,
			expected: "0x1234560000000000000000000000000000000000000000000000000000000000",
		},
		{
			bits:     0x21123456,
			expected: "0x3456000000000000000000000000000000000000000000000000000000000000",
			overflow: true,
		},
		{
			bits:     0x22000001,
			expected: "0x100000000000000000000000000000000000000000000000000000000000000",
		},
		{
			bits:     0x23000001,
			expected: "0x0",
			overflow: true,
		},
		{
			bits:     0xff123456,
			expected: "0x0",
			overflow: true,
		},
	}
	for _, td := range testDefs {
		target, negative, overflow := pow.CompactToTarget(td.bits)
		if target.Cmp(mustHex(t, td.expected)) != 0 {
			t.Fatalf(
				"CompactToTarget(0x%08x): got %s, want %s",
				td.bits,
				target.Hex(),
				td.expected,
			)
		}
		if negative != td.negative {
			t.Fatalf("CompactToTarget(0x%08x): got negative=%v, want %v", td.bits, negative, td.negative)
		}
		if overflow != td.overflow {
			t.Fatalf("CompactToTarget(0x%08x): got overflow=%v, want %v", td.bits, overflow, td.overflow)
		}
	}
}

func TestTargetToCompact(t *testing.T) {
	testDefs := []struct {
		target   string
		expected uint32
	}{
		{target: "0x0", expected: 0},
		{target: "0x12", expected: 0x01120000},
		{target: "0x80", expected: 0x02008000},
		{target: "0x1234", expected: 0x02123400},
		{target: "0x123456", expected: 0x03123456},
		{target: "0x12345678", expected: 0x04123456},
		{target: "0x92340000", expected: 0x05009234},
		{
			target:   "0xffff0000000000000000000000000000000000000000000000000000",
			expected: 0x1d00ffff,
		},
		{
			target:   "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			expected: 0x1e0fffff,
		},
	}
	for _, td := range testDefs {
		got := pow.TargetToCompact(mustHex(t, td.target))
		if got != td.expected {
			t.Fatalf("TargetToCompact(%s): got 0x%08x, want 0x%08x", td.target, got, td.expected)
		}
	}
}

func TestCompactRoundTrip(t *testing.T) {
	values := []string{
		"0x1",
		"0x7f",
		"0x80",
		"0xffff",
		"0x123456",
		"0x12345678",
		"0xdeadbeefcafe",
		"0xffff0000000000000000000000000000000000000000000000000000",
		"0x8000000000000000000000000000000000000000000000000000000000000000",
		"0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}
	for _, v := range values {
		first := pow.TargetToCompact(mustHex(t, v))
		decoded, negative, overflow := pow.CompactToTarget(first)
		if negative || overflow {
			t.Fatalf("encoding of %s decoded with negative=%v overflow=%v", v, negative, overflow)
		}
		if second := pow.TargetToCompact(decoded); second != first {
			t.Fatalf("round trip of %s: got 0x%08x, want 0x%08x", v, second, first)
		}
	}
}

func TestTargetFromCompactErrors(t *testing.T) {
	testDefs := []struct {
		bits     uint32
		negative bool
		overflow bool
	}{
		{bits: 0x04923456, negative: true},
		{bits: 0x21123456, overflow: true},
	}
	for _, td := range testDefs {
		_, err := pow.TargetFromCompact(td.bits)
		var encErr *pow.EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("TargetFromCompact(0x%08x): expected EncodingError, got %v", td.bits, err)
		}
		if encErr.Negative != td.negative || encErr.Overflow != td.overflow {
			t.Fatalf("TargetFromCompact(0x%08x): got %+v", td.bits, encErr)
		}
	}
	if _, err := pow.TargetFromCompact(0x1d00ffff); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
