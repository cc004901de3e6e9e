// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"fmt"
	"sort"
	"time"

	"github.com/holiman/uint256"
)

// NetworkID identifies the network. The ordinal values are significant: the
// dispatcher reproduces a legacy rule that operates on them.
type NetworkID int

const (
	NetworkMain NetworkID = iota
	NetworkTestnet
	NetworkRegtest
)

func (n NetworkID) String() string {
	switch n {
	case NetworkMain:
		return "main"
	case NetworkTestnet:
		return "testnet"
	case NetworkRegtest:
		return "regtest"
	}
	return fmt.Sprintf("network(%d)", int(n))
}

// ForkHeights partition the chain into protocol eras
type ForkHeights struct {
	DiffSwitchHeight   int64
	InflationFixHeight int64
	Diff2SwitchHeight  int64
	V3Fork             int64
}

// AveragingParams configure the multi-algorithm averaging retarget
type AveragingParams struct {
	Interval        int64 // blocks per algorithm in the averaging window
	TargetSpacing   int64 // seconds per block across all algorithms
	MaxAdjustUp     int64 // percent
	MaxAdjustDown   int64 // percent
	LocalAdjustment int64 // percent, per-algorithm correction step
}

func (a AveragingParams) TargetTimespan() int64 {
	return a.Interval * a.TargetSpacing
}

func (a AveragingParams) MinActualTimespan() int64 {
	return a.TargetTimespan() * (100 - a.MaxAdjustUp) / 100
}

func (a AveragingParams) MaxActualTimespan() int64 {
	return a.TargetTimespan() * (100 + a.MaxAdjustDown) / 100
}

// Params is the read-only consensus configuration for a network
type Params struct {
	Name                     string
	ID                       NetworkID
	PowLimits                [NumAlgos]uint256.Int
	TargetTimespan           int64 // seconds
	TargetSpacing            int64 // seconds
	AllowMinDifficultyBlocks bool
	// FixedBits is the constant difficulty of the test network
	FixedBits      uint32
	MedianTimeSpan int
	Forks          ForkHeights
	Averaging      AveragingParams
}

// PowLimit returns a copy of the easiest allowed target for algo. Unknown
// algorithms have a zero limit, so every non-zero target exceeds it.
func (p *Params) PowLimit(algo Algo) *uint256.Int {
	if !algo.Valid() {
		return new(uint256.Int)
	}
	return p.PowLimits[algo].Clone()
}

// Validate checks that the timing parameters cannot stall a retarget loop or
// divide by zero
func (p *Params) Validate() error {
	if p.TargetSpacing < 2 {
		return fmt.Errorf("%w: target spacing %d", ErrInvalidParams, p.TargetSpacing)
	}
	if p.TargetTimespan < p.TargetSpacing {
		return fmt.Errorf(
			"%w: target timespan %d shorter than spacing %d",
			ErrInvalidParams,
			p.TargetTimespan,
			p.TargetSpacing,
		)
	}
	if p.Averaging.Interval <= 0 || p.Averaging.TargetSpacing <= 0 {
		return fmt.Errorf("%w: averaging window", ErrInvalidParams)
	}
	if p.Averaging.MaxAdjustUp >= 100 || p.Averaging.MaxAdjustUp < 0 ||
		p.Averaging.MaxAdjustDown < 0 || p.Averaging.LocalAdjustment < 0 {
		return fmt.Errorf("%w: averaging adjustment percentages", ErrInvalidParams)
	}
	if p.MedianTimeSpan <= 0 {
		return fmt.Errorf("%w: median time span", ErrInvalidParams)
	}
	return nil
}

// TimeSource supplies the adjusted network time
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// OffsetTime is the local clock shifted by the median peer offset
type OffsetTime struct {
	Offset time.Duration
}

func (t OffsetTime) Now() time.Time {
	return time.Now().Add(t.Offset)
}

var defaultAveraging = AveragingParams{
	Interval:        10,
	TargetSpacing:   120,
	MaxAdjustUp:     20,
	MaxAdjustDown:   40,
	LocalAdjustment: 40,
}

const (
	defaultTargetTimespan = 0.10 * 24 * 60 * 60 // 2.4 hours
	defaultTargetSpacing  = 40
	testnetFixedBits      = 0x1d13ffec
)

var Networks = map[string]*Params{
	"main":    mainNet(),
	"testnet": testNet(),
	"regtest": regTest(),
}

// SelectNetwork returns a copy of the named network's parameters
func SelectNetwork(name string) (*Params, error) {
	n, ok := Networks[name]
	if !ok {
		return nil, fmt.Errorf("unknown network %q: available networks: %v", name, NetworkNames())
	}
	ret := *n
	return &ret, nil
}

func NetworkNames() []string {
	ret := make([]string, 0, len(Networks))
	for k := range Networks {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func uniformLimits(shift uint) [NumAlgos]uint256.Int {
	var ret [NumAlgos]uint256.Int
	for i := range ret {
		ret[i] = maxTarget(shift)
	}
	return ret
}

func mainNet() *Params {
	return &Params{
		Name:           "main",
		ID:             NetworkMain,
		PowLimits:      uniformLimits(20),
		TargetTimespan: defaultTargetTimespan,
		TargetSpacing:  defaultTargetSpacing,
		FixedBits:      testnetFixedBits,
		MedianTimeSpan: 11,
		Forks: ForkHeights{
			DiffSwitchHeight:   476280,
			InflationFixHeight: 523800,
			Diff2SwitchHeight:  625800,
			V3Fork:             1028000,
		},
		Averaging: defaultAveraging,
	}
}

func testNet() *Params {
	p := mainNet()
	p.Name = "testnet"
	p.ID = NetworkTestnet
	p.AllowMinDifficultyBlocks = true
	return p
}

func regTest() *Params {
	p := mainNet()
	p.Name = "regtest"
	p.ID = NetworkRegtest
	p.PowLimits = uniformLimits(1)
	p.AllowMinDifficultyBlocks = true
	p.Forks = ForkHeights{}
	return p
}
