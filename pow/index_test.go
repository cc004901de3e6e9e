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

func TestIndexMedianTimePast(t *testing.T) {
	params := mainParams(t)
	idx := pow.NewIndex(params)
	times := []int64{100, 90, 300, 50, 200}
	for i, tm := range times {
		rec, err := idx.Append(pow.BlockRecord{Height: int64(i), Time: tm, Bits: 0x1d00ffff})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if i == 0 && rec.MedianTimePast != 100 {
			t.Fatalf("got MTP %d for single record", rec.MedianTimePast)
		}
	}
	// sorted: 50 90 100 200 300
	if mtp := idx.Tip().MedianTimePast; mtp != 100 {
		t.Fatalf("got MTP %d, want 100", mtp)
	}
}

func TestIndexLookups(t *testing.T) {
	params := mainParams(t)
	idx := buildIndex(t, params, 100, 10, 40, 0x1d00ffff, rotatingAlgo)
	if idx.Len() != 10 {
		t.Fatalf("got len %d", idx.Len())
	}
	if idx.Get(99) != nil || idx.Get(110) != nil {
		t.Fatalf("expected nil outside the window")
	}
	tip := idx.Tip()
	if tip.Height != 109 {
		t.Fatalf("got tip %d", tip.Height)
	}
	if prev := idx.Prev(tip); prev == nil || prev.Height != 108 {
		t.Fatalf("unexpected prev %+v", prev)
	}
	if idx.Prev(idx.Get(100)) != nil {
		t.Fatalf("expected nil before the first record")
	}
	if a := idx.Ancestor(tip, 9); a == nil || a.Height != 100 {
		t.Fatalf("unexpected ancestor %+v", a)
	}
	if idx.Ancestor(tip, 10) != nil {
		t.Fatalf("expected nil ancestor past the window")
	}
	// 109 % 3 == 1, so the latest scrypt block is the tip itself
	if rec := idx.LastForAlgo(tip, pow.AlgoScrypt); rec != tip {
		t.Fatalf("unexpected scrypt record %+v", rec)
	}
	if rec := idx.LastForAlgo(tip, pow.AlgoX11); rec == nil || rec.Height != 107 {
		t.Fatalf("unexpected x11 record %+v", rec)
	}
	if rec := idx.LastForAlgo(idx.Get(100), pow.AlgoSHA256D); rec != nil {
		t.Fatalf("expected no sha256d record at the window start, got %+v", rec)
	}
}

func TestIndexChainWork(t *testing.T) {
	params := mainParams(t)
	idx := buildIndex(t, params, 0, 3, 40, 0x1d00ffff, rotatingAlgo)
	want := uint256.NewInt(3 * 0x100010001)
	if got := idx.Tip().ChainWork; got.Cmp(want) != 0 {
		t.Fatalf("got chain work %s, want %s", got.Dec(), want.Dec())
	}
}

func TestIndexAppendNotContiguous(t *testing.T) {
	params := mainParams(t)
	idx := buildIndex(t, params, 0, 3, 40, 0x1d00ffff, rotatingAlgo)
	_, err := idx.Append(pow.BlockRecord{Height: 5})
	if !errors.Is(err, pow.ErrNotContiguous) {
		t.Fatalf("expected ErrNotContiguous, got %v", err)
	}
}

func TestIndexDropTip(t *testing.T) {
	params := mainParams(t)
	idx := buildIndex(t, params, 0, 4, 40, 0x1d00ffff, rotatingAlgo)
	tip := idx.Tip()
	if dropped := idx.DropTip(); dropped != tip {
		t.Fatalf("got dropped %+v, want %+v", dropped, tip)
	}
	if idx.Len() != 3 || idx.Tip().Height != 2 {
		t.Fatalf("unexpected tip after drop: %+v", idx.Tip())
	}
	if idx.Get(3) != nil {
		t.Fatalf("dropped record still reachable")
	}
	// Height 3 was sha256d; the latest sha256d record is now height 0
	if rec := idx.LastForAlgo(idx.Tip(), pow.AlgoSHA256D); rec == nil || rec.Height != 0 {
		t.Fatalf("unexpected sha256d record %+v", rec)
	}
	// The height can be appended again
	rec, err := idx.Append(pow.BlockRecord{Height: 3, Time: tip.Time, Bits: 0x1d00ffff, Algo: pow.AlgoSHA256D})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rec.ChainWork.Cmp(&tip.ChainWork) != 0 {
		t.Fatalf("got chain work %s, want %s", rec.ChainWork.Dec(), tip.ChainWork.Dec())
	}
	empty := pow.NewIndex(params)
	if empty.DropTip() != nil {
		t.Fatalf("expected nil from an empty index")
	}
}
