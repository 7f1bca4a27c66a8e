package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one retained diagnostic record. At orders entries during the final
// merge; Time is the display form rendered by Merge.
type Entry struct {
	At      time.Time `json:"-" yaml:"-"`
	Time    string    `json:"timestamp" yaml:"timestamp"`
	Level   string    `json:"level" yaml:"level"`
	Message string    `json:"message" yaml:"message"`
}

// Options describes recorder configuration supplied at creation time.
type Options struct {
	// Level gates both retention and the console sink. LevelDisabled keeps
	// nothing and emits nothing.
	Level Level
	// Console receives zerolog output; nil keeps the recorder silent on the
	// terminal while still retaining entries.
	Console io.Writer
	// FilePath, when non-empty, mirrors every retained entry as a plain line
	// appended to the named file.
	FilePath string
	// Fields are added to every console entry.
	Fields map[string]any
}

// Recorder accumulates leveled diagnostic entries for the result payload.
// One recorder exists per source (transport adapter, reconciliation engine);
// their streams are merged once at run end.
type Recorder struct {
	mu      sync.Mutex
	level   Level
	entries []Entry
	file    *os.File
	base    zerolog.Logger
}

// New creates a configured Recorder instance based on Options.
func New(opts Options) (*Recorder, error) {
	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	base := zerolog.New(console).Level(opts.Level.zerologLevel()).With().Timestamp().Logger()
	if len(opts.Fields) > 0 {
		ctx := base.With()
		for k, v := range opts.Fields {
			ctx = ctx.Interface(k, v)
		}
		base = ctx.Logger()
	}

	rec := &Recorder{level: opts.Level, base: base}

	if opts.Level > LevelDisabled && opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		rec.file = file
	}

	return rec, nil
}

// Enabled reports whether any diagnostics are being retained.
func (r *Recorder) Enabled() bool {
	return r != nil && r.level > LevelDisabled
}

// Level returns the configured verbosity ordinal.
func (r *Recorder) Level() Level {
	if r == nil {
		return LevelDisabled
	}
	return r.level
}

// Entries returns a copy of the retained entries in emission order.
func (r *Recorder) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Close releases the log file, if any.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Errorf records an error entry.
func (r *Recorder) Errorf(format string, args ...any) {
	r.emit(LevelError, format, args...)
}

// Infof records an informational entry.
func (r *Recorder) Infof(format string, args ...any) {
	r.emit(LevelInfo, format, args...)
}

// Debugf records a debug entry.
func (r *Recorder) Debugf(format string, args ...any) {
	r.emit(LevelDebug, format, args...)
}

// Tracef records a trace entry.
func (r *Recorder) Tracef(format string, args ...any) {
	r.emit(LevelTrace, format, args...)
}

func (r *Recorder) emit(level Level, format string, args ...any) {
	if r == nil || level > r.level || r.level <= LevelDisabled {
		return
	}

	now := time.Now()
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	r.mu.Lock()
	r.entries = append(r.entries, Entry{At: now, Level: level.String(), Message: msg})
	if r.file != nil {
		fmt.Fprintf(r.file, "%s | %s: %s\n", now.Format(displayTimeFormat), level.String(), msg)
	}
	r.mu.Unlock()

	r.base.WithLevel(level.zerologLevel()).Msg(msg)
}
