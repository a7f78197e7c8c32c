// Package logger provides the zerolog root logger used for debug output.
// The terminal belongs to the TUI, so logs go to a file.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level  string
	Path   string
	Writer io.Writer
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

var (
	mu   sync.Mutex
	root atomic.Pointer[zerolog.Logger]
	file *os.File
)

// Init builds the root logger. Writer wins over Path; with neither set the
// logger discards everything.
func Init(opt Options) error {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = io.Discard
	switch {
	case opt.Writer != nil:
		w = opt.Writer
	case opt.Path != "":
		if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(opt.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		_ = closeFileLocked()
		file = f
		w = f
	}

	log := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
	root.Store(&log)
	return nil
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Get returns the root logger, a no-op logger before Init
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
