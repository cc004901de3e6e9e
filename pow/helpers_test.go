// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const testStartTime = 1_400_000_000

type fixedClock int64

func (c fixedClock) Now() time.Time {
	return time.Unix(int64(c), 0)
}

// buildIndex appends n records starting at startHeight, spacing seconds
// apart, all with the same bits
func buildIndex(
	t *testing.T,
	params *pow.Params,
	startHeight int64,
	n int,
	spacing int64,
	bits uint32,
	algoAt func(height int64) pow.Algo,
) *pow.Index {
	t.Helper()
	idx := pow.NewIndex(params)
	for i := range n {
		height := startHeight + int64(i)
		_, err := idx.Append(pow.BlockRecord{
			Height: height,
			Time:   testStartTime + height*spacing,
			Bits:   bits,
			Algo:   algoAt(height),
		})
		require.NoError(t, err)
	}
	return idx
}

func rotatingAlgo(height int64) pow.Algo {
	return pow.Algo(height % pow.NumAlgos)
}

func scaled(t *testing.T, bits uint32, num, denom uint64) *uint256.Int {
	t.Helper()
	target, negative, overflow := pow.CompactToTarget(bits)
	require.False(t, negative || overflow)
	target.Mul(target, uint256.NewInt(num))
	return target.Div(target, uint256.NewInt(denom))
}

// legacyParams has a 10 block post-inflation-fix interval
func legacyParams(t *testing.T, forks pow.ForkHeights) *pow.Params {
	t.Helper()
	params, err := pow.SelectNetwork("main")
	require.NoError(t, err)
	params.TargetTimespan = 400
	params.TargetSpacing = 40
	params.Forks = forks
	params.Forks.V3Fork = 1 << 40
	require.NoError(t, params.Validate())
	return params
}

func averagingParams(t *testing.T) *pow.Params {
	t.Helper()
	params, err := pow.SelectNetwork("main")
	require.NoError(t, err)
	params.Forks.V3Fork = 0
	return params
}
