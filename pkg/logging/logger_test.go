package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"loud", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat(""))
	assert.Equal(t, time.RFC3339, parseTimeFormat("RFC3339"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, time.Kitchen, parseTimeFormat("whenever"))
}

func TestNewLoggerFromConfig(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	path := filepath.Join(t.TempDir(), "envsync.log")
	logger := NewLoggerFromConfig(&Config{Level: "info", Format: "json", Output: path})

	logger.Info().Str("local", ".env").Msg("Synced")
	logger.Debug().Msg("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"local":".env"`)
	assert.NotContains(t, string(data), "hidden")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNewLoggerFromConfigNil(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	logger := NewLoggerFromConfig(nil)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewWriterFormats(t *testing.T) {
	_, ok := newWriter(&Config{Format: "console", Output: "discard"}).(zerolog.ConsoleWriter)
	assert.True(t, ok, "console format wraps the output")

	// A buffer is never a terminal, so auto means JSON.
	assert.False(t, isTerminal(&bytes.Buffer{}))
	_, ok = newWriter(&Config{Format: "auto", Output: "discard"}).(zerolog.ConsoleWriter)
	assert.False(t, ok)
}

func TestConfigureFromEnv(t *testing.T) {
	original := *Default()
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetDefault(original)
		zerolog.SetGlobalLevel(oldLevel)
	})

	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDebug, "1")
	t.Setenv(EnvLogOutput, "discard")

	ConfigureFromEnv()
	assert.Equal(t, zerolog.DebugLevel, Default().GetLevel())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvLogFormat, "console")
	t.Setenv(EnvLogOutput, "")
	t.Setenv(EnvLogTimeFormat, "rfc3339")
	t.Setenv(EnvLogCaller, "true")

	cfg := configFromEnv()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, DefaultConfig().Output, cfg.Output)
	assert.Equal(t, "rfc3339", cfg.TimeFormat)
	assert.True(t, cfg.AddCaller)
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := CaptureLoggingForTest(t)

	Default().Warn().Msg("template has unset keys")

	tl.AssertContains(t, "template has unset keys")
	tl.AssertNotContains(t, "synced")
}
