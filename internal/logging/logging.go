package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents the severity of a log message.
type Level int32

const (
	// LevelDebug is the debug log level.
	LevelDebug Level = iota
	// LevelInfo is the info log level.
	LevelInfo
	// LevelWarn is the warning log level.
	LevelWarn
	// LevelError is the error log level.
	LevelError
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(levelFromEnv()))
}

// levelFromEnv derives the initial level from DEBUG and LOG_LEVEL.
// DEBUG=true wins over LOG_LEVEL.
func levelFromEnv() Level {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// GetLevel returns the current log level.
func GetLevel() Level {
	return Level(currentLevel.Load())
}

// SetLevel overrides the current log level. Mostly useful in tests.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// IsDebugEnabled reports whether debug logging is enabled.
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only with DEBUG=true or LOG_LEVEL=debug).
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits.
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// Printf is a pass-through for messages that should always print.
func Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int32(l))
	}
}
