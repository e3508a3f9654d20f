// Package logger provides leveled logging on top of zap.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines a simple interface for logging.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	// With returns a child logger carrying the given key/value pairs.
	With(keysAndValues ...interface{}) Logger
}

// zapLogger adapts a zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewLogger creates a Logger writing to stderr.
// logLevel could be "debug", "info", "warn", "error", "fatal"
func NewLogger(logLevel string) Logger {
	return NewWithWriter(logLevel, os.Stderr)
}

// NewWithWriter creates a Logger writing console-encoded lines to w.
func NewWithWriter(logLevel string, w io.Writer) Logger {
	level := zap.NewAtomicLevelAt(parseLevel(logLevel))
	return &zapLogger{
		sugar: newCore(w, level).Sugar(),
		level: level,
	}
}

func newCore(w io.Writer, level zap.AtomicLevel) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func parseLevel(logLevel string) zapcore.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Zap returns the underlying *zap.Logger for components that take one directly.
func Zap(l Logger) *zap.Logger {
	if zl, ok := l.(*zapLogger); ok {
		return zl.sugar.Desugar().WithOptions(zap.AddCallerSkip(-1))
	}
	return zap.NewNop()
}

func (l *zapLogger) Debug(args ...interface{}) {
	l.sugar.Debug(args...)
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Info(args ...interface{}) {
	l.sugar.Info(args...)
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warn(args ...interface{}) {
	l.sugar.Warn(args...)
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Error(args ...interface{}) {
	l.sugar.Error(args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *zapLogger) Fatal(args ...interface{}) {
	l.sugar.Fatal(args...)
}

func (l *zapLogger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

func (l *zapLogger) With(keysAndValues ...interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(keysAndValues...), level: l.level}
}

// Sync flushes any buffered log entries.
func Sync() error {
	if zl, ok := std.(*zapLogger); ok {
		return zl.sugar.Sync()
	}
	return nil
}

// Global std logger instance, initialized with default "info" settings.
var std Logger = NewLogger("info")

// SetGlobalLogLevel reconfigures the global std logger's level.
func SetGlobalLogLevel(logLevel string) {
	if zl, ok := std.(*zapLogger); ok {
		zl.level.SetLevel(parseLevel(logLevel))
	}
}

// SetGlobal replaces the global std logger.
func SetGlobal(l Logger) {
	std = l
}

// Global returns the global std logger.
func Global() Logger {
	return std
}

// Debug logs a debug message using the global std logger.
func Debug(args ...interface{}) {
	std.Debug(args...)
}

// Debugf logs a debug message with formatting.
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Info logs an informational message using the global std logger.
func Info(args ...interface{}) {
	std.Info(args...)
}

// Infof logs an informational message with formatting.
func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(args ...interface{}) {
	std.Warn(args...)
}

// Warnf logs a warning message with formatting.
func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Error logs an error message.
func Error(args ...interface{}) {
	std.Error(args...)
}

// Errorf logs an error message with formatting.
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

// Fatal logs a fatal error message and exits.
func Fatal(args ...interface{}) {
	std.Fatal(args...)
}

// Fatalf logs a fatal error message with formatting and exits.
func Fatalf(format string, args ...interface{}) {
	std.Fatalf(format, args...)
}
