// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"fmt"
)

// BlockHeader is the part of a candidate header the retarget code touches
type BlockHeader struct {
	Version int32
	Time    int64
	Bits    uint32
}

func (h *BlockHeader) Algo() Algo {
	return AlgoFromVersion(h.Version)
}

// UpdateTime moves the header time to max(prev median time past + 1,
// adjusted network time). On the test network the bits are recomputed, since
// difficulty there may depend on the gap between blocks.
func (r *Retargeter) UpdateTime(hdr *BlockHeader, prev *BlockRecord) error {
	if prev == nil {
		return fmt.Errorf("%w: no previous block to stamp against", ErrInsufficientHistory)
	}
	hdr.Time = max(prev.MedianTimePast+1, r.clock.Now().Unix())
	if r.params.ID == NetworkTestnet {
		bits, err := r.NextWorkRequired(prev, hdr, hdr.Algo())
		if err != nil {
			return err
		}
		hdr.Bits = bits
	}
	return nil
}
