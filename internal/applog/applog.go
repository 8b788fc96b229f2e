// Package applog builds the diagnostic logger the watcher and CLI share
// (SPEC_FULL.md §10.2). It follows the teacher's daemon.Config.Logger
// pattern (internal/turso/daemon/daemon.go's DefaultConfig, which wraps a
// standard log.Logger around a fixed prefix and os.Stderr) but, for the
// `isync watch` long-lived process, writes through a rotating
// gopkg.in/natefinch/lumberjack.v2 sink instead of a bare file so the log
// can't grow without bound.
package applog

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how diagnostics are written.
type Config struct {
	// Prefix is prepended to every log line, matching the teacher's
	// "[daemon] " style.
	Prefix string

	// FilePath, if set, routes output through a rotating lumberjack sink
	// at that path instead of os.Stderr. Used by the "watch" command,
	// which is expected to run for days.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig returns stderr-only logging with the given prefix, suitable
// for one-shot CLI commands.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix}
}

// New builds a *log.Logger per cfg. When cfg.FilePath is empty, it logs to
// os.Stderr, matching every short-lived CLI command; otherwise it writes
// through a rotating file sink, matching the long-running watch command.
func New(cfg Config) *log.Logger {
	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize == 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups == 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAgeDays
		if maxAge == 0 {
			maxAge = 28
		}
		w = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
	}
	return log.New(w, cfg.Prefix, log.LstdFlags)
}
