// Package logger provides the leveled diagnostic recorder whose entries are
// attached to the run's result payload, mirrored to an optional log file and
// forwarded to a zerolog console sink.
package logger

import (
	"github.com/rs/zerolog"
)

// Level is the numeric verbosity ordinal. Zero disables logging entirely;
// higher values retain progressively noisier entries.
type Level int

const (
	LevelDisabled Level = iota
	LevelFatal
	LevelError
	LevelWarning
	LevelInfo
	LevelVerbose
	LevelDebug
	LevelDebug2
	LevelTrace
	LevelTrace2
	LevelMaximum
)

var levelNames = map[Level]string{
	LevelDisabled: "DISABLED",
	LevelFatal:    "FATAL",
	LevelError:    "ERROR",
	LevelWarning:  "WARNING",
	LevelInfo:     "INFO",
	LevelVerbose:  "VERBOSE",
	LevelDebug:    "DEBUG",
	LevelDebug2:   "DEBUG_2",
	LevelTrace:    "TRACE",
	LevelTrace2:   "TRACE_2",
	LevelMaximum:  "MAXIMUM",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel clamps an externally supplied ordinal into the defined range.
func ParseLevel(n int) Level {
	if n < int(LevelDisabled) {
		return LevelDisabled
	}
	if n > int(LevelMaximum) {
		return LevelMaximum
	}
	return Level(n)
}

// zerologLevel maps a recorder level onto the nearest zerolog level for the
// console sink.
func (l Level) zerologLevel() zerolog.Level {
	switch {
	case l <= LevelFatal:
		return zerolog.FatalLevel
	case l == LevelError:
		return zerolog.ErrorLevel
	case l == LevelWarning:
		return zerolog.WarnLevel
	case l <= LevelVerbose:
		return zerolog.InfoLevel
	case l <= LevelDebug2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
