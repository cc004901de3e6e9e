// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/dgcpow/internal/indexer"
	"github.com/blinklabs-io/dgcpow/pow"
)

// Bits is a compact target encoded as 8 hex digits in JSON
type Bits uint32

func (b Bits) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "%08x", uint32(b)), nil
}

func (b *Bits) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToLower(string(text)), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid compact bits %q: %w", text, err)
	}
	*b = Bits(v)
	return nil
}

type recordResponse struct {
	Height         int64    `json:"height"`
	Hash           pow.Hash `json:"hash"`
	Time           int64    `json:"time"`
	MedianTimePast int64    `json:"medianTimePast"`
	Bits           Bits     `json:"bits"`
	Algo           string   `json:"algo"`
	Version        int32    `json:"version"`
	ChainWork      string   `json:"chainWork"`
}

func newRecordResponse(rec *pow.BlockRecord) recordResponse {
	return recordResponse{
		Height:         rec.Height,
		Hash:           rec.Hash,
		Time:           rec.Time,
		MedianTimePast: rec.MedianTimePast,
		Bits:           Bits(rec.Bits),
		Algo:           rec.Algo.String(),
		Version:        rec.Version,
		ChainWork:      rec.ChainWork.Hex(),
	}
}

type nextWorkResponse struct {
	Algo    string `json:"algo"`
	Version int32  `json:"version"`
	Time    int64  `json:"time"`
	Bits    Bits   `json:"bits"`
	Target  string `json:"target"`
}

type headerRequest struct {
	Hash     pow.Hash `json:"hash"`
	PrevHash pow.Hash `json:"prevHash"`
	PowHash  pow.Hash `json:"powHash"`
	Version  int32    `json:"version"`
	Time     int64    `json:"time"`
	Bits     Bits     `json:"bits"`
}

func (r headerRequest) submission() indexer.HeaderSubmission {
	return indexer.HeaderSubmission{
		Hash:     r.Hash,
		PrevHash: r.PrevHash,
		PowHash:  r.PowHash,
		Version:  r.Version,
		Time:     r.Time,
		Bits:     uint32(r.Bits),
	}
}

type checkPowRequest struct {
	Hash pow.Hash `json:"hash"`
	Bits Bits     `json:"bits"`
	Algo string   `json:"algo"`
}

type checkPowResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

type workResponse struct {
	Bits     Bits   `json:"bits"`
	Target   string `json:"target"`
	Negative bool   `json:"negative"`
	Overflow bool   `json:"overflow"`
	Work     string `json:"work"`
}
