// Package logging provides structured logging configuration using zerolog
// for the Manifold client, CLI and gateway.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Request flow (endpoint, url)
//   - Batch dispatch start (queries, batches)
//   - Configuration resolution
//
// Info: Normal operation events
//   - Completed batch runs
//   - Batch progress
//   - Stored runs
//   - Gateway startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Responses degraded to empty results (500, undecodable body)
//   - Rate-limited requests
//   - Rejected SMILES (422)
//   - Store errors (results still returned)
//
// Error: Error conditions requiring attention
//   - Transport failures
//   - Malformed responses
//   - Configuration errors
//
// Context Fields:
//   - endpoint: Manifold endpoint name (exact, fast_score_batch, ...)
//   - status: HTTP status code
//   - duration: Request or batch run duration
//   - error_kind: invalid_input, rate_limited, malformed_response, ...
//   - outcome: Degradation reason (server_error, undecodable)
//   - batch / batches / queries: Batch progress counters
//   - run_id: Identifier of a stored lookup run
