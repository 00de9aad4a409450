// Package logging provides the leveled, category-scoped logger shared by
// every guardhook binary. It wraps zap the way the host CLI's own commands
// do: one process-wide SugaredLogger, cheap category helpers on top.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category groups log lines by subsystem so operators can grep a single
// concern out of a noisy hook invocation.
type Category string

const (
	CategoryGuard     Category = "guard"
	CategoryDuplicate Category = "duplicate"
	CategoryIndexer   Category = "indexer"
	CategoryOverride  Category = "override"
	CategorySymbols   Category = "symbols"
	CategoryReview    Category = "review"
	CategoryMCP       Category = "mcp"
	CategoryStore     Category = "store"
)

var (
	once   sync.Once
	base   *zap.SugaredLogger
	initMu sync.Mutex
)

// Init configures the process-wide logger. Safe to call multiple times;
// only the first call takes effect. Logs are written to stderr only, never
// stdout: the hook writes nothing to stdout, and the MCP servers use it
// for protocol frames.
func Init(debug bool) {
	once.Do(func() {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      false,
			Encoding:         "console",
			EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}
		l, err := cfg.Build()
		if err != nil {
			// Logging must never be fatal to the hook; fall back to a no-op core.
			l = zap.NewNop()
		}
		base = l.Sugar()
	})
}

// Get returns a category-scoped logger, initializing a quiet default
// logger if Init was never called (e.g. in unit tests).
func Get(category Category) *zap.SugaredLogger {
	initMu.Lock()
	if base == nil {
		initMu.Unlock()
		Init(os.Getenv("GUARDHOOK_DEBUG") == "1")
	} else {
		initMu.Unlock()
	}
	return base.With("category", string(category))
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
