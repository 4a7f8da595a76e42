package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/envsync/pkg/constants"
)

// Environment variables read by ConfigureFromEnv and the default logger.
const (
	EnvLogLevel      = constants.EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat     = constants.EnvPrefix + "_LOG_FORMAT"
	EnvLogOutput     = constants.EnvPrefix + "_LOG_OUTPUT"
	EnvLogTimeFormat = constants.EnvPrefix + "_LOG_TIME_FORMAT"
	EnvLogCaller     = constants.EnvPrefix + "_LOG_CALLER"
	EnvDebug         = constants.EnvPrefix + "_DEBUG"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is json, console, or auto (console on a terminal)
	Format string

	// Output is stderr, stdout, discard, or a file path
	Output string

	// TimeFormat for console timestamps (kitchen, rfc3339, or a Go layout)
	TimeFormat string

	NoColor bool

	// AddCaller includes file:line in log output
	AddCaller bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Level:      "warn",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig creates a new logger from configuration. It also sets
// zerolog's global level so Default-based loggers follow the same level.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(newWriter(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Configure replaces the default logger with one built from cfg.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ConfigureFromEnv configures the default logger from ENVSYNC_LOG_*,
// ENVSYNC_DEBUG and NO_COLOR. It runs when the package is loaded.
func ConfigureFromEnv() {
	Configure(configFromEnv())
}

// configFromEnv overlays the environment on DefaultConfig.
func configFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.Level = levelFromEnv()
	cfg.Format = getEnvOrDefault(EnvLogFormat, cfg.Format)
	cfg.Output = getEnvOrDefault(EnvLogOutput, cfg.Output)
	cfg.TimeFormat = getEnvOrDefault(EnvLogTimeFormat, cfg.TimeFormat)
	cfg.AddCaller = os.Getenv(EnvLogCaller) == "true"
	return cfg
}

// newWriter resolves the output destination and wraps it for the format.
func newWriter(cfg *Config) io.Writer {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "discard", "none":
		output = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			output = os.Stderr
		} else {
			output = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if isTerminal(output) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: parseTimeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	}
	return output
}

// parseLevel parses a log level string. Unknown levels mean warn.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return l
}

// parseTimeFormat maps a time format name to a layout.
func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "kitchen", "":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "log":
		return constants.TimeFormatLog
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
