// Package log wraps logrus behind a small interface so the rest of the
// core depends on a logging contract rather than a concrete library.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging contract used throughout the core. It is
// satisfied by *logrus.Logger and *logrus.Entry.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a logrus-backed Logger configured for deterministic,
// script-friendly output: no colors, no timestamps, fields kept in
// the order they were added.
func New() Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// Nop returns a Logger that discards everything written to it. Useful
// for tests that don't want diagnostic noise but still need to satisfy
// the Logger contract.
func Nop() Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
