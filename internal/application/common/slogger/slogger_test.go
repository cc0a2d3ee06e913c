package slogger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-sitter-ucode/internal/application/common/logging"
)

// captureLogs routes the global logger to a buffer for the duration of the test.
func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Configure(logging.Config{Level: level, Format: "json", Writer: &buf}))
	t.Cleanup(func() {
		SetGlobalLogger(nil)
	})
	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []logging.LogEntry {
	t.Helper()
	var out []logging.LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry logging.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestConfigure(t *testing.T) {
	buf := captureLogs(t, "DEBUG")

	ctx := logging.WithCorrelationID(context.Background(), "corr-1")
	Debug(ctx, "parsed", Fields{"bytes": 10, "reused": 2})
	ErrorWithError(ctx, errors.New("boom"), "failed", Field("file", "a.uc"))

	got := entries(t, buf)
	require.Len(t, got, 2)

	assert.Equal(t, "DEBUG", got[0].Level)
	assert.Equal(t, "corr-1", got[0].CorrelationID)
	assert.Len(t, got[0].Metadata, 2)

	assert.Equal(t, "ERROR", got[1].Level)
	assert.Equal(t, "boom", got[1].Error)
	assert.Equal(t, "a.uc", got[1].Metadata["file"])
}

func TestConfigure_InvalidLevel(t *testing.T) {
	assert.Error(t, Configure(logging.Config{Level: "LOUD", Format: "json", Output: "stderr"}))
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{level: "DEBUG", want: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "INFO", want: []string{"INFO", "WARN", "ERROR"}},
		{level: "WARN", want: []string{"WARN", "ERROR"}},
		{level: "ERROR", want: []string{"ERROR"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureLogs(t, tt.level)
			ctx := context.Background()

			Debug(ctx, "debug", nil)
			Info(ctx, "info", nil)
			Warn(ctx, "warn", nil)
			Error(ctx, "error", nil)

			var levels []string
			for _, entry := range entries(t, buf) {
				levels = append(levels, entry.Level)
			}
			assert.Equal(t, tt.want, levels)
		})
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureLogs(t, "INFO")

	WithComponent("tree-cache").Info(context.Background(), "evicted", Field("entries", 1))

	got := entries(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "tree-cache", got[0].Component)
	assert.Equal(t, float64(1), got[0].Metadata["entries"])
}

func TestDefaultLogger(t *testing.T) {
	SetGlobalLogger(nil)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	assert.NotNil(t, global.get())
	assert.Same(t, global.get(), global.get())
}

func TestField(t *testing.T) {
	assert.Equal(t, Fields{"a": 1}, Field("a", 1))
}
