package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides leveled, timestamped logging throughout the application.
// Each logger may carry a component tag printed before every message.
type Logger struct {
	info      *log.Logger
	warn      *log.Logger
	err       *log.Logger
	debug     *log.Logger
	component string
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return newLogger(os.Stdout, os.Stderr)
}

// NewLoggerTo creates a Logger that writes every level to w.
func NewLoggerTo(w io.Writer) *Logger {
	return newLogger(w, w)
}

func newLogger(out, errOut io.Writer) *Logger {
	return &Logger{
		info:  log.New(out, "", 0),
		warn:  log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		debug: log.New(out, "", 0),
	}
}

// With returns a copy of the logger tagged with component.
func (l *Logger) With(component string) *Logger {
	cp := *l
	cp.component = component
	return &cp
}

func (l *Logger) line(level, format string, args []any) string {
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = "[" + l.component + "] " + msg
	}
	return fmt.Sprintf("[%s] %s %s", time.Now().Format("2006-01-02 15:04:05"), level, msg)
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Println(l.line("\033[32mINFO\033[0m ", format, args))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Println(l.line("\033[33mWARN\033[0m ", format, args))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Println(l.line("\033[31mERROR\033[0m", format, args))
}

func (l *Logger) Debug(format string, args ...any) {
	l.debug.Println(l.line("\033[36mDEBUG\033[0m", format, args))
}
