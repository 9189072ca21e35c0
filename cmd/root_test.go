package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgen/bugzilla-query/config"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "info", want: zerolog.InfoLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "error", want: zerolog.ErrorLevel},
		{level: "unknown", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
		logger.Info().Str("bug", "1234567").Msg("fetched")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "fetched", entry["message"])
		assert.Equal(t, "1234567", entry["bug"])
		assert.Contains(t, entry, "time")
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LoggingConfig{Level: "info", Format: "console"}, &buf)
		logger.Info().Msg("fetched")

		output := buf.String()
		assert.Contains(t, output, "INF")
		assert.Contains(t, output, "fetched")
		assert.Error(t, json.Unmarshal(buf.Bytes(), new(map[string]any)))
	})

	t.Run("console without color", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LoggingConfig{Level: "info", Format: "console", Color: false}, &buf)
		logger.Info().Msg("fetched")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("console with color", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true}, &buf)
		logger.Info().Msg("fetched")
		assert.True(t, strings.Contains(buf.String(), "\x1b["))
	})
}
