package logging

import (
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	EncodingText = "text"
	EncodingJSON = "json"
)

// Options selects the backend, minimum level and encoding.
type Options struct {
	Backend  string
	Level    string
	Encoding string
}

// New returns a Logger writing to w. Unknown backends fall back to slog and
// unparsable levels fall back to info.
func New(w io.Writer, opts Options) Logger {
	switch strings.ToLower(opts.Backend) {
	case BackendZap:
		level := zapcore.InfoLevel
		if err := level.Set(opts.Level); err != nil {
			level = zapcore.InfoLevel
		}
		return newZap(w, level, opts.Encoding)
	default:
		var level slog.Level
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			level = slog.LevelInfo
		}
		return newSlog(w, level, opts.Encoding)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
