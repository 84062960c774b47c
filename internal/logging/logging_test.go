package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := New(Options{Level: slog.LevelInfo, Component: "dashboard", Writer: &buf})
	require.NoError(t, err)
	defer c.Close()

	l.Debug("hidden")
	l.Info("loaded", "source", "monthly")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "component=dashboard")
	assert.Contains(t, out, "source=monthly")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "expdash.log")
	l, c, err := New(Options{Level: slog.LevelDebug, File: path})
	require.NoError(t, err)

	l.Debug("hello")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewWithoutWriterDiscards(t *testing.T) {
	l, _, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}
