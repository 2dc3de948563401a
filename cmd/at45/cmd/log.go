package cmd

import (
	"io"

	"github.com/rs/zerolog"
)

// newLogger returns the diagnostic logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05.000"}).
		Level(level).
		With().Timestamp().
		Logger()
}
