package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"info":  zapcore.InfoLevel,
		"trace": zapcore.DebugLevel,
		"DEBUG": zapcore.DebugLevel,
		"Warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, want := range tests {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, level.Level(), name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSink("warn", "json", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("template skipped", zap.String("provider", "Microsoft-Windows-Kernel-General"), zap.Uint32("event_id", 12))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "template skipped", entry["msg"])
	assert.Equal(t, "Microsoft-Windows-Kernel-General", entry["provider"])
	assert.EqualValues(t, 12, entry["event_id"])
}

func TestConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSink("debug", "console", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("subscribed", zap.String("channel", "Application"))
	require.NoError(t, logger.Sync())
	assert.Contains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "subscribed")
	assert.Contains(t, buf.String(), `"channel": "Application"`)
}

func TestUnknownEncoding(t *testing.T) {
	_, err := NewWithSink("info", "yaml", zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}
