// Package log is a small structured-logging facade used throughout the
// wisent builder, codec pipeline and CLI. It mirrors the shape of the
// logger saferwall/pe threads through its parser (a Logger interface, a
// leveled Helper, and a filtering wrapper) so call sites read the same way:
// a package-scope default, an optional override via Options.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a logging severity.
type Level int8

// Severities, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger logs a keyvals-style record at a given level. keyvals is an
// alternating key/value list, as in "key1", val1, "key2", val2.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// NewStdLogger returns a Logger that writes to w, one line per record.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

type stdLogger struct {
	w io.Writer
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	buf := fmt.Sprintf("%s ts=%s", level, time.Now().Format(time.RFC3339))
	for i := 0; i < len(keyvals); i += 2 {
		buf += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	_, err := fmt.Fprintln(l.w, buf)
	return err
}

// FilterOption configures a filtering Logger.
type FilterOption func(*filter)

// FilterLevel drops any record below the given level.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

type filter struct {
	logger Logger
	level  Level
}

// NewFilter wraps logger with a minimum-level gate.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper provides leveled convenience methods over a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugw/Infow/Warnw/Errorw helpers.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

// Debugw logs at debug level.
func (h *Helper) Debugw(keyvals ...interface{}) { h.log(LevelDebug, keyvals...) }

// Infow logs at info level.
func (h *Helper) Infow(keyvals ...interface{}) { h.log(LevelInfo, keyvals...) }

// Warnw logs at warn level.
func (h *Helper) Warnw(keyvals ...interface{}) { h.log(LevelWarn, keyvals...) }

// Errorw logs at error level.
func (h *Helper) Errorw(keyvals ...interface{}) { h.log(LevelError, keyvals...) }

func (h *Helper) log(level Level, keyvals ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, keyvals...)
}

// Default is the package-level logger used when callers pass no override.
var Default = NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelInfo)))
