// Package log wraps logrus with the small surface keysort uses: leveled
// package-level helpers and field-based structured entries.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"keysort/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is a configured logrus logger.
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyLevel: "level",
			},
		})
	}
}

// WithFile appends log lines to path only. Used while the terminal belongs to the TUI.
func WithFile(path string) Option {
	return func(l *Logger) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot create %s: %v\n", filepath.Dir(path), err)
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(f)
	}
}

// NewLogger creates a text logger on stdout unless options say otherwise.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases a log file opened by WithFile.
func Close() error {
	if logger.file == nil {
		return nil
	}
	err := logger.file.Close()
	logger.file = nil
	return err
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// With returns an entry carrying fields.
func (l *Logger) With(fields ...Field) *Entry {
	return (&Entry{e: logrus.NewEntry(l.base)}).With(fields...)
}

// WithContext returns an entry bound to ctx.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Entry{e: l.base.WithContext(ctx)}
}

func (l *Logger) Info(msg string)                  { l.With().Info(msg) }
func (l *Logger) Infof(format string, args ...any) { l.With().Infof(format, args...) }
func (l *Logger) Warn(msg string)                  { l.With().Warn(msg) }
func (l *Logger) Warnf(format string, args ...any) { l.With().Warnf(format, args...) }
func (l *Logger) Error(msg string)                 { l.With().Error(msg) }
func (l *Logger) Errorf(format string, args ...any) {
	l.With().Errorf(format, args...)
}
func (l *Logger) Debug(msg string)                  { l.With().Debug(msg) }
func (l *Logger) Debugf(format string, args ...any) { l.With().Debugf(format, args...) }

// Entry is a log line under construction.
type Entry struct {
	e *logrus.Entry
}

// With adds fields to a copy of the entry.
func (e *Entry) With(fields ...Field) *Entry {
	if len(fields) == 0 {
		return e
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Entry{e: e.e.WithFields(lf)}
}

func (e *Entry) Info(msg string)                   { e.e.Info(msg) }
func (e *Entry) Infof(format string, args ...any)  { e.e.Infof(format, args...) }
func (e *Entry) Warn(msg string)                   { e.e.Warn(msg) }
func (e *Entry) Warnf(format string, args ...any)  { e.e.Warnf(format, args...) }
func (e *Entry) Error(msg string)                  { e.e.Error(msg) }
func (e *Entry) Errorf(format string, args ...any) { e.e.Errorf(format, args...) }

func (e *Entry) Debug(msg string) {
	if isDebug.Load() {
		e.e.Debug(msg)
	}
}

func (e *Entry) Debugf(format string, args ...any) {
	if isDebug.Load() {
		e.e.Debugf(format, args...)
	}
}

// LogWithFields starts an entry on the package logger.
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError starts an entry describing err, including its kind and path
// or parameter when it is an application error.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}

	var appErr interface{ Kind() errors.ErrorKind }
	if errors.As(err, &appErr) {
		fields = append(fields, F("error_kind", int(appErr.Kind())))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(msg string)                   { logger.Info(msg) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Warn(msg string)                   { logger.Warn(msg) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Error(msg string)                  { logger.Error(msg) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Debug(msg string)                  { logger.Debug(msg) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
