// Package logging is a small leveled logger on top of the standard log
// package. Commands call Init once; libraries call the package functions.
package logging

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"
)

// Verbosity selects which messages reach the output.
type Verbosity int

const (
	LowVerbosity    Verbosity = iota // errors only
	MediumVerbosity                  // warnings and errors
	HighVerbosity                    // everything
)

func (v Verbosity) String() string {
	switch v {
	case LowVerbosity:
		return "low"
	case MediumVerbosity:
		return "medium"
	case HighVerbosity:
		return "high"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// Logger writes prefixed, leveled lines to a log.Logger.
type Logger struct {
	mu        sync.Mutex
	verbosity Verbosity
	l         *log.Logger
}

// New returns a logger writing to w at the given verbosity.
func New(w io.Writer, verbosity Verbosity) *Logger {
	return &Logger{
		verbosity: verbosity,
		l:         log.New(w, "", log.LstdFlags),
	}
}

var (
	std  = &Logger{verbosity: MediumVerbosity, l: log.Default()}
	once sync.Once
)

// Init sets the verbosity of the package logger. Only the first call has an
// effect.
func Init(verbosity Verbosity) {
	once.Do(func() {
		std.SetVerbosity(verbosity)
	})
}

// Default returns the package logger.
func Default() *Logger {
	return std
}

// SetVerbosity changes the verbosity of l.
func (l *Logger) SetVerbosity(v Verbosity) {
	l.mu.Lock()
	l.verbosity = v
	l.mu.Unlock()
}

// SetOutput redirects l to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.l.SetOutput(w)
	l.mu.Unlock()
}

// Verbosity reports the current verbosity.
func (l *Logger) Verbosity() Verbosity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbosity
}

func (l *Logger) output(min Verbosity, level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbosity < min {
		return
	}
	l.l.Printf("%s\t%s\t%s", level, caller(3), msg)
}

// caller returns the short name of the function skip frames up.
func caller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}
	name := runtime.FuncForPC(pc).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Debugf logs at HighVerbosity.
func (l *Logger) Debugf(format string, args ...any) {
	l.output(HighVerbosity, "DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs at HighVerbosity.
func (l *Logger) Infof(format string, args ...any) {
	l.output(HighVerbosity, "INFO", fmt.Sprintf(format, args...))
}

// Warnf logs unless the verbosity is LowVerbosity.
func (l *Logger) Warnf(format string, args ...any) {
	l.output(MediumVerbosity, "WARN", fmt.Sprintf(format, args...))
}

// ReturnErrorf logs the error and returns it. The format may wrap a cause
// with %w.
func (l *Logger) ReturnErrorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	l.output(LowVerbosity, "ERROR", err.Error())
	return err
}

// Debugf logs to the package logger.
func Debugf(format string, args ...any) {
	std.output(HighVerbosity, "DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs to the package logger.
func Infof(format string, args ...any) {
	std.output(HighVerbosity, "INFO", fmt.Sprintf(format, args...))
}

// Warnf logs to the package logger.
func Warnf(format string, args ...any) {
	std.output(MediumVerbosity, "WARN", fmt.Sprintf(format, args...))
}

// ReturnErrorf logs to the package logger and returns the error.
func ReturnErrorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	std.output(LowVerbosity, "ERROR", err.Error())
	return err
}
