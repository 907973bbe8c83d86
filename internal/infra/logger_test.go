package infra

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogWriter_DevUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	w := LogWriter("development", &buf)
	assert.IsType(t, zerolog.ConsoleWriter{}, w)
}

func TestLogWriter_ProductionKeepsRawJSON(t *testing.T) {
	var buf bytes.Buffer
	w := LogWriter("production", &buf)
	assert.Same(t, &buf, w)

	log := zerolog.New(w)
	log.Info().Str("k", "v").Msg("hello")
	assert.JSONEq(t, `{"level":"info","k":"v","message":"hello"}`, buf.String())
}
