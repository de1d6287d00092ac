// Package logging sets up the process logger, powered by go.uber.org/zap.
//
// By default it writes human readable lines to stdout at INFO level. The
// environment variable EVINPUT_LOGGING_LEVEL (debug, info, warn, error)
// overrides the level and Setup redirects output to a rotating file.
package logging

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is used for logging formatted messages.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

type Level = zapcore.Level

var (
	defaultLogger Logger
	defaultLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	flusher       func() error
)

func init() {
	if lvl := os.Getenv("EVINPUT_LOGGING_LEVEL"); lvl != "" {
		if err := defaultLevel.UnmarshalText([]byte(lvl)); err != nil {
			panic("invalid EVINPUT_LOGGING_LEVEL, " + err.Error())
		}
	}
	zapLogger := zap.New(zapcore.NewCore(encoder(), zapcore.Lock(os.Stdout), defaultLevel))
	defaultLogger = zapLogger.Sugar()
	flusher = zapLogger.Sync
}

func encoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// Setup applies the configured level and, if file is set, logs to it
// instead of stdout. An empty level keeps the current one.
func Setup(level, file string) error {
	if level != "" {
		if err := defaultLevel.UnmarshalText([]byte(level)); err != nil {
			return errors.Wrapf(err, "logging level %q", level)
		}
	}
	if file == "" {
		return nil
	}

	// lumberjack.Logger is already safe for concurrent use
	ws := zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	zapLogger := zap.New(zapcore.NewCore(encoder(), ws, defaultLevel), zap.AddStacktrace(zapcore.ErrorLevel))
	Cleanup()
	defaultLogger = zapLogger.Sugar()
	flusher = zapLogger.Sync
	return nil
}

// SetLogger replaces the default logger, e.g. in tests.
func SetLogger(logger Logger) {
	defaultLogger = logger
	flusher = nil
}

func GetLogger() Logger {
	return defaultLogger
}

// Cleanup flushes buffered entries. Call it before the process exits.
func Cleanup() {
	if flusher != nil {
		_ = flusher()
	}
}

func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	defaultLogger.Fatalf(format, args...)
}
