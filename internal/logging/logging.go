// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/blinklabs-io/dgcpow/internal/config"
)

var globalLogger = slog.Default()

// Setup installs a JSON logger at the configured level as the slog default
func Setup() error {
	cfg := config.GetConfig()
	var level slog.Level
	if cfg.Logging.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			return fmt.Errorf("error configuring logger: %w", err)
		}
	}
	handler := slog.NewJSONHandler(
		os.Stdout,
		&slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Change timestamp key name and use a human readable format
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
				}
				return a
			},
		},
	)
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

func GetLogger() *slog.Logger {
	return globalLogger
}

// BadgerLogger gives a slog logger the interface badger expects
type BadgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		logger: GetLogger().With("component", "badger"),
	}
}

func (b *BadgerLogger) Errorf(msg string, args ...any) {
	b.logger.Error(formatBadger(msg, args...))
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.logger.Warn(formatBadger(msg, args...))
}

func (b *BadgerLogger) Infof(msg string, args ...any) {
	b.logger.Info(formatBadger(msg, args...))
}

func (b *BadgerLogger) Debugf(msg string, args ...any) {
	b.logger.Debug(formatBadger(msg, args...))
}

// Badger terminates most messages with a newline
func formatBadger(msg string, args ...any) string {
	return strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n")
}
