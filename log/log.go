// Package log provides the structured logging collaborator used by the
// cbordump CLI and by opt-in decoder diagnostics. It wraps zerolog's
// package-level logger rather than introducing a second logging
// abstraction.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level mirrors zerolog's level enum so callers outside this package
// don't need to import zerolog directly just to pick a verbosity.
type Level int8

const (
	// LevelDisabled turns logging off entirely.
	LevelDisabled Level = iota
	// LevelError logs only errors.
	LevelError
	// LevelWarn logs warnings and errors.
	LevelWarn
	// LevelInfo logs informational events, warnings, and errors.
	LevelInfo
	// LevelDebug additionally logs debug detail.
	LevelDebug
	// LevelTrace additionally logs per-item tag-dispatch detail.
	LevelTrace
)

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDisabled:
		return zerolog.Disabled
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Configure sets the global logger's minimum level and output writer. It
// is meant to be called once, from cmd/cbordump's entry point.
func Configure(level Level, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	zerolog.SetGlobalLevel(zerologLevel(level))
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// TagDispatch logs a trace-level event for a single tag interpretation
// decision, used by callers that opt into decoder diagnostics (the
// decoder package itself never calls this directly; see cmd/cbordump).
func TagDispatch(tag uint64, matched bool, kind string) {
	log.Trace().
		Uint64("tag", tag).
		Bool("matched", matched).
		Str("kind", kind).
		Msg("tag dispatch")
}

// Error logs an error encountered while decoding a blob, with its byte offset.
func Error(err error, offset int) {
	log.Error().Err(err).Int("offset", offset).Msg("decode failed")
}
