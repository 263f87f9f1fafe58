package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// initLogger sets the default slog logger to write JSON to w, and to a
// rotating log file as well if the config asks for one.
func initLogger(c LoggerConfig, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     logLevelFromString(c.LogLevel),
		AddSource: c.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}
	if c.LogToFile && c.Filename != "" {
		target := &lumberjack.Logger{
			Filename:   c.Filename,
			MaxSize:    c.MaxSize, // megabytes
			MaxAge:     c.MaxAge,  // days
			MaxBackups: c.MaxBackups,
			Compress:   c.CompressOldLogs,
		}
		w = io.MultiWriter(w, target)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
