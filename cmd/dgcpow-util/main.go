// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/blinklabs-io/dgcpow/internal/version"
	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/holiman/uint256"
)

const usage = `usage: dgcpow-util <command> [flags] [args]

commands:
  decode <bits>                  decode compact bits into a target
  encode <target>                encode a hex target as compact bits
  work <bits>                    proof increment for compact bits
  checkpow [-network N] [-algo A] <hash> <bits>
                                 verify a proof-of-work hash against bits
  version                        print the version
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "decode":
		return cmdDecode(args[1:], out)
	case "encode":
		return cmdEncode(args[1:], out)
	case "work":
		return cmdWork(args[1:], out)
	case "checkpow":
		return cmdCheckPow(args[1:], out)
	case "version":
		fmt.Fprintf(out, "dgcpow-util %s\n", version.GetVersionString())
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func parseBits(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid compact bits %q: %w", s, err)
	}
	return uint32(v), nil
}

func cmdDecode(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode takes one argument", errUsage)
	}
	bits, err := parseBits(args[0])
	if err != nil {
		return err
	}
	target, negative, overflow := pow.CompactToTarget(bits)
	fmt.Fprintf(out, "target:   %s\n", target.Hex())
	fmt.Fprintf(out, "negative: %t\n", negative)
	fmt.Fprintf(out, "overflow: %t\n", overflow)
	return nil
}

func cmdEncode(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: encode takes one argument", errUsage)
	}
	s := strings.ToLower(args[0])
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	// FromHex rejects leading zeros
	if trimmed := strings.TrimLeft(s[2:], "0"); trimmed != "" {
		s = "0x" + trimmed
	} else {
		s = "0x0"
	}
	target, err := uint256.FromHex(s)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", args[0], err)
	}
	fmt.Fprintf(out, "%08x\n", pow.TargetToCompact(target))
	return nil
}

func cmdWork(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: work takes one argument", errUsage)
	}
	bits, err := parseBits(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, pow.ProofIncrement(bits).Dec())
	return nil
}

func cmdCheckPow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("checkpow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	network := fs.String("network", "main", "network parameters to check against")
	algoName := fs.String("algo", "scrypt", "mining algorithm")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: checkpow takes a hash and bits", errUsage)
	}
	params, err := pow.SelectNetwork(*network)
	if err != nil {
		return err
	}
	algo, err := pow.ParseAlgo(*algoName)
	if err != nil {
		return err
	}
	hash, err := pow.HashFromString(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid hash: %w", err)
	}
	bits, err := parseBits(fs.Arg(1))
	if err != nil {
		return err
	}
	if err := pow.CheckProofOfWork(params, hash.Target(), bits, algo); err != nil {
		return err
	}
	fmt.Fprintln(out, "ok")
	return nil
}
