// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"fmt"
	"strconv"
	"strings"
)

// Algo identifies the hash function that secures a block
type Algo uint8

const (
	AlgoSHA256D Algo = iota
	AlgoScrypt
	AlgoX11
)

// NumAlgos is the number of mining algorithms sharing the chain
const NumAlgos = 3

// Block version bits carrying the algorithm
const (
	BlockVersionAlgoMask int32 = 7 << 9
	BlockVersionScrypt   int32 = 0
	BlockVersionSHA256D  int32 = 1 << 9
	BlockVersionX11      int32 = 2 << 9
)

var algoNames = [NumAlgos]string{
	AlgoSHA256D: "sha256d",
	AlgoScrypt:  "scrypt",
	AlgoX11:     "x11",
}

func (a Algo) String() string {
	if !a.Valid() {
		return fmt.Sprintf("algo(%d)", uint8(a))
	}
	return algoNames[a]
}

func (a Algo) Valid() bool {
	return a < NumAlgos
}

// Version returns the block version algo bits for the algorithm
func (a Algo) Version() int32 {
	switch a {
	case AlgoSHA256D:
		return BlockVersionSHA256D
	case AlgoX11:
		return BlockVersionX11
	default:
		return BlockVersionScrypt
	}
}

// AlgoFromVersion extracts the algorithm from a block version. Unknown algo
// bits are treated as scrypt.
func AlgoFromVersion(version int32) Algo {
	switch version & BlockVersionAlgoMask {
	case BlockVersionSHA256D:
		return AlgoSHA256D
	case BlockVersionX11:
		return AlgoX11
	default:
		return AlgoScrypt
	}
}

// ParseAlgo accepts an algorithm name or its numeric identifier
func ParseAlgo(s string) (Algo, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "sha256d", "sha256", "sha":
		return AlgoSHA256D, nil
	case "scrypt":
		return AlgoScrypt, nil
	case "x11":
		return AlgoX11, nil
	}
	if n, err := strconv.ParseUint(name, 10, 8); err == nil && Algo(n).Valid() {
		return Algo(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgo, s)
}
