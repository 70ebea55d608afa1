package logger

import (
	"sync"
)

// Log levels accepted by the log_level setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. Only the first call's level is honored.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level, nil)
	})
	return globalLogger
}

// Nop returns a logger that drops everything; handy for tests and optional deps.
func Nop() *Logger {
	return newNopLogger()
}
