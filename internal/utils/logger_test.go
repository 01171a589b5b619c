package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(level string, verbose bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(LoggerOptions{
		Level:   level,
		Format:  FormatJSON,
		Output:  &buf,
		Verbose: verbose,
	}), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		logger, buf := jsonLogger("info", false)
		logger.Info().Msg("listing")
		entry := decodeLine(t, buf)
		assert.Equal(t, "listing", entry["message"])
		assert.Equal(t, "info", entry["level"])
	})

	t.Run("pretty without color", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LoggerOptions{Format: FormatPretty, Output: &buf, NoColor: true})
		logger.Info().Str("repo", "alpha").Msg("[1/2] Finished")
		assert.Contains(t, buf.String(), "[1/2] Finished")
		assert.Contains(t, buf.String(), "repo=alpha")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("empty format is pretty", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LoggerOptions{Output: &buf, NoColor: true})
		logger.Info().Msg("hello")
		assert.NotContains(t, buf.String(), `"message"`)
		assert.Contains(t, buf.String(), "hello")
	})
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		verbose   bool
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", false, true, true, true},
		{"info", false, false, true, true},
		{"warn", false, false, false, true},
		{"error", false, false, false, false},
		{"info", true, true, true, true},
		{"error", true, true, true, true},
	}

	for _, tt := range tests {
		name := tt.level
		if tt.verbose {
			name += "/verbose"
		}
		t.Run(name, func(t *testing.T) {
			logger, buf := jsonLogger(tt.level, tt.verbose)

			logger.Debug().Msg("d")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0, "debug")
			buf.Reset()

			logger.Info().Msg("i")
			assert.Equal(t, tt.wantInfo, buf.Len() > 0, "info")
			buf.Reset()

			logger.Warn().Msg("w")
			assert.Equal(t, tt.wantWarn, buf.Len() > 0, "warn")
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := jsonLogger("info", false)

	logger.WithComponent("orchestrator").
		WithBatch("b-123").
		ForJob("cli-kneeboard", "fetch", "work/cli-kneeboard").
		Info().Msg("[3/7] Finished")

	entry := decodeLine(t, buf)
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "b-123", entry["batch_id"])
	assert.Equal(t, "cli-kneeboard", entry["repo"])
	assert.Equal(t, "fetch", entry["action"])
	assert.Equal(t, "work/cli-kneeboard", entry["path"])
	assert.Equal(t, "[3/7] Finished", entry["message"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Error().Msg("dropped")
		logger.WithBatch("x").ForJob("a", "clone", "a").Info().Msg("dropped")
	})
}
