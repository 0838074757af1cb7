// Package vaulttest holds small helpers shared by the engine packages'
// tests.
package vaulttest

import (
	"log/slog"
	"os"
)

// NewLogger returns a logger quiet by default (errors only), promoted to
// info or debug via the DEBUG=1 / DEBUG=2 environment variable — useful
// for surfacing engine logs only when a test is actually being debugged.
func NewLogger() *slog.Logger {
	level := slog.LevelError
	switch os.Getenv("DEBUG") {
	case "1":
		level = slog.LevelInfo
	case "2":
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
