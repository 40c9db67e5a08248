package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the CLI driver's global logger. The core delimhuff package never
// imports zerolog; logging is an ambient concern of the driver, not of the
// codec itself.
var Logger zerolog.Logger

func init() {
	setupLogger()
}

// setupLogger mirrors the LOG_LEVEL environment variable convention this
// codebase's lineage uses: unset or unrecognized disables logging entirely.
func setupLogger() {
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	var level zerolog.Level
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.Disabled
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("component", "delimhuff").
		Logger()
}
