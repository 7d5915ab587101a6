package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	l.Info("test message", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "test message")
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestNew_ProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Environment: "production"})

	l.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNew_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelInfo})

	l.Info("pretty message", "note_id", "note-1")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "pretty message")
	assert.Contains(t, out, "note_id=note-1")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json"})

	l.WithError(assert.AnError).Error("operation failed")

	require.Contains(t, buf.String(), assert.AnError.Error())
}
