package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

const (
	LOG_INFO  = "info"
	LOG_DEBUG = "debug"
	LOG_WARN  = "warn"
	LOG_ERROR = "error"
)

func init() {
	// Silent until a command asks for output
	SetSilentMode(true)
}

// SetSilentMode switches between discarding all output and a console writer on stderr
func SetSilentMode(silent bool) {
	if silent {
		SetOutput(io.Discard)
		return
	}

	SetOutput(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// SetOutput redirects the shared logger to w. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// New returns the shared logger
func New() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns the shared logger with a component field attached
func With(component string) zerolog.Logger {
	return New().With().Str("component", component).Logger()
}

// SetLevel sets the global log level
func SetLevel(level string) {
	switch level {
	case LOG_DEBUG:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case LOG_WARN:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case LOG_ERROR:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Configure enables console output at warn level, or debug level when verbose is set.
// Warnings are always visible so the dispatcher can report failed commands.
func Configure(verbose bool) {
	SetSilentMode(false)
	if verbose {
		SetLevel(LOG_DEBUG)
	} else {
		SetLevel(LOG_WARN)
	}
}
