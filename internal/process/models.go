package process

import (
	"strings"
	"time"
)

// Process is the workflow orchestrator's unit of work.
type Process struct {
	ID         int64
	Title      string
	Project    string
	Ruleset    string
	SwappedOut bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Step is one workflow node attached to a process.
type Step struct {
	ID      int64
	Title   string
	Process *Process
}

// LogLevel classifies process log entries.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// ParseLogLevel converts a string into a known LogLevel.
func ParseLogLevel(value string) (LogLevel, bool) {
	switch level := LogLevel(strings.ToLower(strings.TrimSpace(value))); level {
	case LogDebug, LogInfo, LogWarn, LogError:
		return level, true
	default:
		return "", false
	}
}

// LogEntry is one message in a process log.
type LogEntry struct {
	ID        int64
	ProcessID int64
	Level     LogLevel
	Message   string
	CreatedAt time.Time
}
