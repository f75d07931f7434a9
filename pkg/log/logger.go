package log

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Output formats accepted by SetupLogger.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// SetupLogger builds the zerolog-backed logger from CLI settings, installs it
// as the process default and returns it.
func SetupLogger(w io.Writer, loglevel, format string) (Logger, error) {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	switch strings.ToLower(format) {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w}
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	logger := NewZerologLogger(w, level)
	SetLogger(logger)
	return logger, nil
}

// ToLogLevel parses a level name as used on the command line.
func ToLogLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
