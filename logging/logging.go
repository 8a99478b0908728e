// Package logging configures the logrus standard logger for the example
// programs.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPath is where the plugin writes its log when asked to log to a file.
const DefaultPath = "/tmp/test_logger.log"

// Configure points log at out, sets the level and installs a text formatter
// with millisecond timestamps.
func Configure(log *logrus.Logger, out io.Writer, verbose bool) {
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
		DisableColors:   out != os.Stderr && out != os.Stdout,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Setup configures the standard logger. With an empty path it logs to
// stderr; otherwise path is truncated and logged to, and the returned
// function closes it.
func Setup(path string, verbose bool) (func() error, error) {
	if path == "" {
		Configure(logrus.StandardLogger(), os.Stderr, verbose)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "logging: open")
	}
	Configure(logrus.StandardLogger(), f, verbose)
	logrus.Info("starting")

	return f.Close, nil
}
