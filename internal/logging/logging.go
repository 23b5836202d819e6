// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger in production and a console logger in development.
func New(dev bool) zerolog.Logger {
	return newLogger(os.Stdout, dev)
}

func newLogger(w io.Writer, dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		w = zerolog.ConsoleWriter{Out: w}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
