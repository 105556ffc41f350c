// Package logger configures the logrus logger shared by the tools.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger aliases the logrus logger so callers need not import logrus.
type Logger = logrus.Logger

// New returns a logger writing plain text to w.
// Debug output is enabled when debug is set, otherwise only warnings and errors are written.
func New(w io.Writer, debug bool) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})

	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	return log
}

// Named returns an entry tagged with the component name.
func Named(log *Logger, component string) *logrus.Entry {
	entry := logrus.NewEntry(log)
	if component != "" {
		entry = entry.WithField("component", component)
	}

	return entry
}
