// Package logger is the process-wide logger. Every service sets a prefix once at startup
// and then logs through the package functions; output is structured JSON from zap.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// slowThreshold is the minimum duration LogDuration reports at info level.
const slowThreshold = 100 * time.Millisecond

var (
	mu     sync.RWMutex
	prefix string
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	once   sync.Once
)

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func initLogger() {
	level.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	setBase(l)
}

func setBase(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	if prefix != "" {
		sugar = l.Named(prefix).Sugar()
	} else {
		sugar = l.Sugar()
	}
}

func get() *zap.SugaredLogger {
	once.Do(initLogger)
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// SetPrefix names every following log entry after the service ("site", "pool").
func SetPrefix(p string) {
	once.Do(initLogger)
	mu.Lock()
	prefix = p
	l := base
	mu.Unlock()
	setBase(l)
}

// SetLevel overrides the level taken from LOG_LEVEL (config may carry its own value).
func SetLevel(s string) {
	once.Do(initLogger)
	level.SetLevel(parseLevel(s))
}

// Use replaces the underlying zap logger. Tests pass an observer core here.
func Use(l *zap.Logger) {
	once.Do(func() {})
	setBase(l)
}

// Zap exposes the underlying logger for libraries that take a *zap.Logger.
func Zap() *zap.Logger {
	once.Do(initLogger)
	mu.RLock()
	defer mu.RUnlock()
	return sugar.Desugar()
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	_ = get().Sync()
}

func Info(v ...any) {
	get().Info(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	get().Infof(format, v...)
}

func Debugf(format string, v ...any) {
	get().Debugf(format, v...)
}

func Warnf(format string, v ...any) {
	get().Warnf(format, v...)
}

func Error(v ...any) {
	get().Error(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	get().Errorf(format, v...)
}

// Infow logs a message with structured key/value pairs.
func Infow(msg string, kv ...any) {
	get().Infow(msg, kv...)
}

// Errorw logs an error message with structured key/value pairs.
func Errorw(msg string, kv ...any) {
	get().Errorw(msg, kv...)
}

// LogDuration reports fn with its elapsed time. At info level only calls slower than
// 100ms are reported; at debug level every call is.
func LogDuration(fn string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed >= slowThreshold {
		get().Infow("slow call", "fn", fn, "duration_ms", elapsed.Milliseconds())
		return
	}
	get().Debugw("call", "fn", fn, "duration_ms", elapsed.Milliseconds())
}

// DeferLogDuration is meant for defer: defer logger.DeferLogDuration("repo.Claim", time.Now())().
func DeferLogDuration(fn string, start time.Time) func() {
	return func() { LogDuration(fn, start) }
}

// MaskToken hides all but the first four characters of a session token.
func MaskToken(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "***"
}
