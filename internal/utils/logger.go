package utils

import (
	"log"
	"os"
)

// Logger is a simple two-stream logger for the application
type Logger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

// NewLogger creates a new logger
func NewLogger() *Logger {
	return NewComponentLogger("")
}

// NewComponentLogger creates a logger whose lines are tagged with the
// given component name
func NewComponentLogger(component string) *Logger {
	tag := ""
	if component != "" {
		tag = "[" + component + "] "
	}
	return &Logger{
		infoLog:  log.New(os.Stdout, "INFO: "+tag, log.Ldate|log.Ltime|log.Lshortfile),
		errorLog: log.New(os.Stderr, "ERROR: "+tag, log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	l.infoLog.Printf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.errorLog.Printf(format, v...)
}
