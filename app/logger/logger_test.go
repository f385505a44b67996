package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupWriterLevels(t *testing.T) {
	var buf bytes.Buffer

	SetupWriter(&buf, false)
	slog.Debug("hidden message")
	slog.Info("visible message", "kind", "general")

	assert.NotContains(t, buf.String(), "hidden message")
	assert.Contains(t, buf.String(), "visible message")
	assert.Contains(t, buf.String(), "kind=general")

	buf.Reset()
	SetupWriter(&buf, true)
	slog.Debug("debug message")
	assert.Contains(t, buf.String(), "debug message")
}
