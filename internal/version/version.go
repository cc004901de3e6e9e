// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package version

import (
	"fmt"
	"runtime"
)

// These are populated at build time
var (
	Version    string
	CommitHash string
)

func GetVersionString() string {
	version := Version
	if version == "" {
		version = "devel"
	}
	commit := CommitHash
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, %s)", version, commit, runtime.Version())
}
