// Package logger prints the status lines of a build run.
//
// Every terminal state of a run ends in exactly one line from Success or
// Error. Info and Debug lines describe progress; Debug lines only appear
// in verbose mode.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
)

// Logger writes colored status lines to an output and an error stream
type Logger struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

// New creates a logger writing to the given streams
func New(out, err io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		err:     err,
		verbose: verbose,
	}
}

// Default writes to the process stdout and stderr
func Default(verbose bool) *Logger {
	return New(os.Stdout, os.Stderr, verbose)
}

// Discard drops everything
func Discard() *Logger {
	return New(io.Discard, io.Discard, false)
}

// Out is the writer used for progress output (spinners, passthrough)
func (l *Logger) Out() io.Writer {
	return l.out
}

// Verbose reports whether debug lines are printed
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) Info(format string, a ...any) {
	fmt.Fprintln(l.out, color.Info.Sprintf(format, a...))
}

func (l *Logger) Success(format string, a ...any) {
	fmt.Fprintln(l.out, color.Success.Sprintf(format, a...))
}

func (l *Logger) Warn(format string, a ...any) {
	fmt.Fprintln(l.err, color.Warn.Sprintf("Warning: "+format, a...))
}

func (l *Logger) Error(format string, a ...any) {
	fmt.Fprintln(l.err, color.Danger.Sprintf(format, a...))
}

func (l *Logger) Debug(format string, a ...any) {
	if !l.verbose {
		return
	}

	fmt.Fprintln(l.out, color.Debug.Sprintf(format, a...))
}
