// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/blinklabs-io/dgcpow/internal/api"
	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/internal/indexer"
	"github.com/blinklabs-io/dgcpow/internal/logging"
	"github.com/blinklabs-io/dgcpow/internal/metrics"
	"github.com/blinklabs-io/dgcpow/internal/state"
	"github.com/blinklabs-io/dgcpow/internal/version"
)

var cmdlineFlags struct {
	configFile string
}

func main() {
	flag.StringVar(
		&cmdlineFlags.configFile,
		"config",
		"",
		"path to config file to load",
	)
	flag.Parse()

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	if err := logging.Setup(); err != nil {
		fmt.Printf("Failed to configure logging: %s\n", err)
		os.Exit(1)
	}

	slog.Info(
		fmt.Sprintf("dgcpowd %s started", version.GetVersionString()),
		"network", cfg.Chain.Network,
	)

	// Load state
	if err := state.GetState().Load(); err != nil {
		slog.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		slog.Info(
			"starting debug listener",
			"address", cfg.Debug.ListenAddress,
			"port", cfg.Debug.ListenPort,
		)
		go func() {
			debugServer := &http.Server{
				Addr: fmt.Sprintf(
					"%s:%d",
					cfg.Debug.ListenAddress,
					cfg.Debug.ListenPort,
				),
				ReadHeaderTimeout: 60 * time.Second,
			}
			if err := debugServer.ListenAndServe(); err != nil {
				slog.Error("failed to start debug listener", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Start metrics listener
	if cfg.Metrics.ListenPort > 0 {
		slog.Info(
			"starting metrics listener",
			"address", cfg.Metrics.ListenAddress,
			"port", cfg.Metrics.ListenPort,
		)
		go func() {
			if err := metrics.GetMetrics().Start(); err != nil {
				slog.Error("failed to start metrics listener", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Start indexer
	if err := indexer.GetIndexer().Start(); err != nil {
		slog.Error("failed to start indexer", "error", err)
		os.Exit(1)
	}

	// Start API listener. This blocks until the listener fails
	apiErr := api.Start()
	if err := state.GetState().Close(); err != nil {
		slog.Error("failed to close state", "error", err)
	}
	if apiErr != nil {
		slog.Error("failed to start API listener", "error", apiErr)
		os.Exit(1)
	}
}
