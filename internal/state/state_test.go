// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"testing"

	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestState(t *testing.T, backend string, dir string) *State {
	t.Helper()
	s := &State{}
	require.NoError(t, s.open(backend, dir))
	return s
}

func testRecord(height int64) *pow.BlockRecord {
	return &pow.BlockRecord{
		Height:         height,
		Hash:           pow.Hash{byte(height), 0xaa},
		Time:           1_400_000_000 + height*40,
		MedianTimePast: 1_400_000_000 + height*40 - 200,
		Bits:           0x1c00ffff,
		Algo:           pow.Algo(height % pow.NumAlgos),
		Version:        pow.Algo(height % pow.NumAlgos).Version(),
		ChainWork:      *uint256.NewInt(uint64(height+1) * 0x100010001),
	}
}

func TestStateBackends(t *testing.T) {
	for _, backend := range []string{config.StateBackendBadger, config.StateBackendBolt} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			s := openTestState(t, backend, dir)

			_, ok, err := s.GetTip()
			require.NoError(t, err)
			assert.False(t, ok)
			rec, err := s.GetRecord(0)
			require.NoError(t, err)
			assert.Nil(t, rec)

			// Heights past 9 check the key padding keeps numeric order
			for h := range int64(12) {
				require.NoError(t, s.PutRecord(testRecord(h)))
			}
			tip, ok, err := s.GetTip()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(11), tip)

			rec, err = s.GetRecord(7)
			require.NoError(t, err)
			assert.Equal(t, testRecord(7), rec)

			var heights []int64
			err = s.IterateRecords(func(r *pow.BlockRecord) error {
				heights = append(heights, r.Height)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, heights)

			// Reopen
			require.NoError(t, s.Close())
			s = openTestState(t, backend, dir)
			defer s.Close()
			tip, ok, err = s.GetTip()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(11), tip)
		})
	}
}

func TestStateNotLoaded(t *testing.T) {
	s := &State{}
	_, err := s.GetRecord(0)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.PutRecord(testRecord(0)), ErrNotLoaded)
	assert.NoError(t, s.Close())
}

func TestStateUnknownBackend(t *testing.T) {
	s := &State{}
	assert.Error(t, s.open("leveldb", t.TempDir()))
}
