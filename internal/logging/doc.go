// Package logging assembles structured slog loggers shared across the mls
// commands.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes attribute helpers so components emit log lines with a consistent
// shape. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
