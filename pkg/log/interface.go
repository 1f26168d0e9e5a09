// Package log provides a structured logging interface for svmopt.
//
// The interface is slog-compatible so that callers can plug in their own
// backend; the default backend is zerolog (see zerolog.go). Estimators obtain
// a named logger once at construction and attach the standard attribute keys
// from attributes.go.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("svm.svc").With(
//	    log.ModelNameKey, "SVC",
//	    log.KernelKey, "linear",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 100,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. For Error, a leading
// error value is treated specially by the backends and recorded under the
// "error" key.
type Logger interface {
	// Debug logs diagnostic detail such as per-evaluation loss terms.
	Debug(msg string, fields ...any)

	// Info logs general operational information (fit started/completed).
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the computation, such as a
	// solver that stopped before reaching its tolerance.
	Warn(msg string, fields ...any)

	// Error logs an error condition.
	//
	// Example:
	//   logger.Error("Fit failed",
	//       err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive debug fields:
	//
	//   if logger.Enabled(ctx, LevelDebug) {
	//       logger.Debug("Dual loss", "left_sum", left, "right_sum", right)
	//   }
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. Swap the package-wide provider with
// SetProvider to redirect every estimator's output.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
