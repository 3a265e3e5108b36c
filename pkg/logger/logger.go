// Package logger is a small structured-logging facade over log/slog.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// callerSkip is the number of frames between runtime.Caller and the
// call site of a logging method: caller -> log -> level method.
const callerSkip = 3

// Logger is the logging interface the rest of the service depends on.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field                { return Field{Key: key, Value: val} }
func Int(key string, val int) Field               { return Field{Key: key, Value: val} }
func Int64(key string, val int64) Field           { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field       { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field             { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field       { return Field{Key: key, Value: val} }
func Error(err error) Field                       { return Field{Key: "error", Value: err} }

// slogFacade implements Logger on top of a slog.Logger.
type slogFacade struct {
	l *slog.Logger
}

func (f *slogFacade) Named(name string) Logger {
	return &slogFacade{l: f.l.WithGroup(name)}
}

func (f *slogFacade) Debug(ctx context.Context, msg string, fields ...Field) {
	f.log(ctx, slog.LevelDebug, msg, fields)
}

func (f *slogFacade) Info(ctx context.Context, msg string, fields ...Field) {
	f.log(ctx, slog.LevelInfo, msg, fields)
}

func (f *slogFacade) Warn(ctx context.Context, msg string, fields ...Field) {
	f.log(ctx, slog.LevelWarn, msg, fields)
}

func (f *slogFacade) Error(ctx context.Context, msg string, fields ...Field) {
	f.log(ctx, slog.LevelError, msg, fields)
}

func (f *slogFacade) Fatal(ctx context.Context, msg string, fields ...Field) {
	f.log(ctx, slog.LevelError, msg, fields)
	os.Exit(1)
}

func (f *slogFacade) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, fld := range fields {
		attrs = append(attrs, slog.Any(fld.Key, fld.Value))
	}
	attrs = append(attrs, slog.String("source", caller()))
	f.l.LogAttrs(ctx, level, msg, attrs...)
}

// caller returns the log call site as relative/path/file.go:line.
func caller() string {
	_, file, line, ok := runtime.Caller(callerSkip)
	if !ok {
		return "unknown:0"
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	rel, err := filepath.Rel(cwd, file)
	if err != nil {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return fmt.Sprintf("%s:%d", rel, line)
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Init installs the global logger writing text records to stdout at
// info level. The level can be changed later with SetLevelString.
func Init() error {
	levelVar.Set(slog.LevelInfo)
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	global = &slogFacade{l: slog.New(h)}
	return nil
}

// Get returns the global logger. It panics when Init has not run;
// logging before initialization is a programming error.
func Get() Logger {
	if global == nil {
		panic("logger not initialized: call logger.Init first")
	}
	return global
}

// Named returns a named child of the global logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync flushes buffered entries. slog writes synchronously, so this
// exists only to keep shutdown paths uniform.
func Sync() error {
	return nil
}

// SetLevel updates the global handler level.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and applies a level name. Accepts debug, info,
// warn/warning and error, case-insensitive; empty means info.
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
