// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrNotContiguous = errors.New("record does not extend the index tip")

// Index is an append-only arena of block records for a single chain, keyed
// by height. The first appended record fixes the base height, so an Index may
// hold a trailing window of a longer chain.
type Index struct {
	mu             sync.RWMutex
	medianTimeSpan int
	base           int64
	records        []*BlockRecord
	// lastByAlgo[i][a] is the height of the latest record with algo a at or
	// before records[i], or -1
	lastByAlgo [][NumAlgos]int64
}

func NewIndex(params *Params) *Index {
	return &Index{
		medianTimeSpan: params.MedianTimeSpan,
	}
}

// Append adds rec as the new tip. MedianTimePast and ChainWork are derived
// from the existing records and overwrite whatever rec carried.
func (i *Index) Append(rec BlockRecord) (*BlockRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var parent *BlockRecord
	if len(i.records) == 0 {
		i.base = rec.Height
	} else {
		parent = i.records[len(i.records)-1]
		if rec.Height != parent.Height+1 {
			return nil, fmt.Errorf(
				"%w: height %d after tip %d",
				ErrNotContiguous,
				rec.Height,
				parent.Height,
			)
		}
	}
	// Parent work is unknown for the first record of a trailing window, so
	// the window starts counting from zero
	if parent != nil {
		rec.ChainWork = *ChainWork(&parent.ChainWork, rec.Bits)
	} else {
		rec.ChainWork = *ProofIncrement(rec.Bits)
	}
	ret := &rec
	i.records = append(i.records, ret)
	ret.MedianTimePast = i.medianTimePastLocked(len(i.records) - 1)
	var last [NumAlgos]int64
	if parent != nil {
		last = i.lastByAlgo[len(i.lastByAlgo)-1]
	} else {
		for a := range last {
			last[a] = -1
		}
	}
	if rec.Algo.Valid() {
		last[rec.Algo] = rec.Height
	}
	i.lastByAlgo = append(i.lastByAlgo, last)
	return ret, nil
}

func (i *Index) medianTimePastLocked(pos int) int64 {
	start := max(pos-i.medianTimeSpan+1, 0)
	times := make([]int64, 0, pos-start+1)
	for _, r := range i.records[start : pos+1] {
		times = append(times, r.Time)
	}
	slices.Sort(times)
	return times[len(times)/2]
}

func (i *Index) position(height int64) int {
	pos := height - i.base
	if pos < 0 || pos >= int64(len(i.records)) {
		return -1
	}
	return int(pos)
}

// Get returns the record at height, or nil
func (i *Index) Get(height int64) *BlockRecord {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if pos := i.position(height); pos >= 0 {
		return i.records[pos]
	}
	return nil
}

// Tip returns the most recent record, or nil for an empty index
func (i *Index) Tip() *BlockRecord {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if len(i.records) == 0 {
		return nil
	}
	return i.records[len(i.records)-1]
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

func (i *Index) Prev(rec *BlockRecord) *BlockRecord {
	if rec == nil {
		return nil
	}
	return i.Get(rec.Height - 1)
}

func (i *Index) Ancestor(rec *BlockRecord, n int64) *BlockRecord {
	if rec == nil {
		return nil
	}
	return i.Get(rec.Height - n)
}

func (i *Index) LastForAlgo(rec *BlockRecord, algo Algo) *BlockRecord {
	if rec == nil || !algo.Valid() {
		return nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	pos := i.position(rec.Height)
	if pos < 0 {
		return nil
	}
	height := i.lastByAlgo[pos][algo]
	if height < 0 {
		return nil
	}
	return i.records[height-i.base]
}

// DropTip removes and returns the most recent record, or nil for an empty
// index. Readers holding the dropped record keep a valid snapshot.
func (i *Index) DropTip() *BlockRecord {
	i.mu.Lock()
	defer i.mu.Unlock()
	n := len(i.records)
	if n == 0 {
		return nil
	}
	ret := i.records[n-1]
	i.records[n-1] = nil
	i.records = i.records[:n-1]
	i.lastByAlgo = i.lastByAlgo[:n-1]
	return ret
}
