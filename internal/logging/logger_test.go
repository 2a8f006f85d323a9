package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn")
	t.Cleanup(func() { Init("info") })

	Info("hidden message")
	Warn("shown message", "blueprint", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "shown message")
	assert.Contains(t, out, "blueprint=7")
}
