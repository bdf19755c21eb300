// Package logging assembles structured slog loggers and formatting helpers used
// across retitle.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so step code automatically tags
// log lines with process IDs, step names, and correlation IDs. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
