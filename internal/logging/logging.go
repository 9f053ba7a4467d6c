package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug logs everything.
	LevelDebug Level = iota
	// LevelInfo logs informational messages and above.
	LevelInfo
	// LevelWarn logs warnings and errors only.
	LevelWarn
	// LevelError logs errors only.
	LevelError
)

var (
	mu       sync.RWMutex
	level    Level
	levelSet bool
)

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
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

func levelFromEnv() Level {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// CurrentLevel returns the active log level, initializing it from the
// environment on first use.
func CurrentLevel() Level {
	mu.RLock()
	if levelSet {
		defer mu.RUnlock()
		return level
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !levelSet {
		level = levelFromEnv()
		levelSet = true
	}
	return level
}

// SetLevel overrides the active log level. Mainly useful in tests.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	levelSet = true
}

func logAt(l Level, prefix, format string, args ...any) {
	if CurrentLevel() <= l {
		log.Printf(prefix+format, args...)
	}
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	logAt(LevelDebug, "[DEBUG] ", format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	logAt(LevelInfo, "[INFO] ", format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	logAt(LevelWarn, "[WARN] ", format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	logAt(LevelError, "[ERROR] ", format, args...)
}

// Fatal logs an error and exits the process.
func Fatal(format string, args ...any) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the level name.
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
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}
