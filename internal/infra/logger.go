package infra

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// LogWriter returns the log sink for the given environment: pretty console
// output in development, raw JSON (zerolog's native format) in production.
func LogWriter(env string, out io.Writer) io.Writer {
	if env == "production" {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}
