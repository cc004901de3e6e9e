// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

// legacyEra holds the retarget parameters in force at a height under the
// legacy periodic algorithm
type legacyEra struct {
	newDifficulty  bool
	inflationFix   bool
	diffSwitchTwo  bool
	targetTimespan int64
	interval       int64
	minActual      int64
	maxActual      int64
}

func (p *Params) legacyEraAt(height int64) legacyEra {
	e := legacyEra{
		newDifficulty: height >= p.Forks.DiffSwitchHeight,
		inflationFix:  height >= p.Forks.InflationFixHeight,
		diffSwitchTwo: height >= p.Forks.Diff2SwitchHeight,
	}
	if e.inflationFix {
		e.targetTimespan = p.TargetTimespan
		e.interval = e.targetTimespan / p.TargetSpacing
	} else {
		e.targetTimespan = p.TargetTimespan * 5
		e.interval = e.targetTimespan / (p.TargetSpacing / 2)
	}
	switch {
	case e.diffSwitchTwo:
		e.maxActual = e.targetTimespan * 75 / 60
		e.minActual = e.targetTimespan * 55 / 73
	case e.newDifficulty:
		e.maxActual = e.targetTimespan * 2
		e.minActual = e.targetTimespan / 2
	default:
		e.maxActual = e.targetTimespan * 4
		e.minActual = e.targetTimespan / 4
	}
	return e
}
