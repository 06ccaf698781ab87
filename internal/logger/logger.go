package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // The package intentionally maintains a single shared logger instance.
var (
	globalMutex  sync.RWMutex
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalLogger = New(globalLevel)
)

// New creates a new zap.SugaredLogger with the specified log level.
// If level is nil, the package-wide default level is used.
func New(level zapcore.LevelEnabler) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).Sugar()
}

// Logger returns the current global logger.
func Logger() *zap.SugaredLogger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = l
}

// Level returns the current global log level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the global log level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug logging is currently enabled.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// ParseLogLevel parses a textual log level into a zapcore.Level.
// It returns zapcore.InfoLevel and false if the input is not recognized.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "dpanic":
		return zapcore.DPanicLevel, true
	case "panic":
		return zapcore.PanicLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Debug logs a message at debug level.
func Debug(_ context.Context, args ...any) {
	Logger().Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(_ context.Context, format string, args ...any) {
	Logger().Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(_ context.Context, msg string, kv ...any) {
	Logger().Debugw(msg, kv...)
}

// Info logs a message at info level.
func Info(_ context.Context, args ...any) {
	Logger().Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(_ context.Context, format string, args ...any) {
	Logger().Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(_ context.Context, msg string, kv ...any) {
	Logger().Infow(msg, kv...)
}

// Warn logs a message at warn level.
func Warn(_ context.Context, args ...any) {
	Logger().Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(_ context.Context, format string, args ...any) {
	Logger().Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(_ context.Context, msg string, kv ...any) {
	Logger().Warnw(msg, kv...)
}

// Error logs a message at error level.
func Error(_ context.Context, args ...any) {
	Logger().Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(_ context.Context, format string, args ...any) {
	Logger().Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(_ context.Context, msg string, kv ...any) {
	Logger().Errorw(msg, kv...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(_ context.Context, format string, args ...any) {
	Logger().Fatalf(format, args...)
}
