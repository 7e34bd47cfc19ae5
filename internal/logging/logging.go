// Package logging configures logrus for the application and hands out component loggers.
//
// Library packages accept a *logrus.Entry and fall back to Discard, so nothing is written
// unless the binary calls Setup.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Settings selects level, format and destination.
type Settings struct {
	Level  string // logrus level name; empty means "info"
	Format string // "text" or "json"
	File   string // empty means stderr
}

// Setup configures the standard logrus logger. The returned closer releases the log file.
func Setup(fs afero.Fs, s Settings) (io.Closer, error) {
	level := logrus.InfoLevel
	if s.Level != "" {
		parsed, err := logrus.ParseLevel(s.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	logrus.SetLevel(level)

	switch strings.ToLower(s.Format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", s.Format)
	}

	if s.File == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := fs.MkdirAll(filepath.Dir(s.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := fs.OpenFile(s.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// For returns a logger tagged with component.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// Discard returns a logger that writes nothing.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
