package ocaf

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevel = new(slog.LevelVar)

// ParseLogLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog level. Anything else is Info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ConfigureLogging installs the default logger writing to stdout. OCAF_LOG_LEVEL picks the level
// and OCAF_LOG_FORMAT=json switches from text to JSON records.
func ConfigureLogging() {
	ConfigureLoggingTo(os.Stdout)
}

// ConfigureLoggingTo is ConfigureLogging writing to w.
func ConfigureLoggingTo(w io.Writer) {
	logLevel.Set(ParseLogLevel(os.Getenv("OCAF_LOG_LEVEL")))
	ho := &slog.HandlerOptions{Level: logLevel}
	var h slog.Handler = slog.NewTextHandler(w, ho)
	if strings.EqualFold(os.Getenv("OCAF_LOG_FORMAT"), "json") {
		h = slog.NewJSONHandler(w, ho)
	}
	slog.SetDefault(slog.New(h))
}

// SetLogLevel changes the level of the logger installed by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
