// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"github.com/holiman/uint256"
)

type RetargetKind string

const (
	RetargetFixed     RetargetKind = "fixed"
	RetargetLegacy    RetargetKind = "legacy"
	RetargetAveraging RetargetKind = "averaging"
)

// RetargetEvent describes one retarget decision. It is diagnostic output and
// has no effect on the computed bits.
type RetargetEvent struct {
	Kind           RetargetKind
	Algo           Algo
	Height         int64
	CandidateTime  int64
	PrevBits       uint32
	NewBits        uint32
	Before         uint256.Int
	After          uint256.Int
	ActualTimespan int64
	TargetTimespan int64
	Adjustments    int64
	// Retargeted is false when the previous bits were carried forward
	Retargeted bool
	// InsufficientHistory is set when the limit was used for lack of
	// history
	InsufficientHistory bool
}

type Observer interface {
	ObserveRetarget(RetargetEvent)
}

type ObserverFunc func(RetargetEvent)

func (f ObserverFunc) ObserveRetarget(ev RetargetEvent) {
	f(ev)
}

// MultiObserver fans an event out to every observer in order
type MultiObserver []Observer

func (m MultiObserver) ObserveRetarget(ev RetargetEvent) {
	for _, o := range m {
		o.ObserveRetarget(ev)
	}
}

type nopObserver struct{}

func (nopObserver) ObserveRetarget(RetargetEvent) {}
