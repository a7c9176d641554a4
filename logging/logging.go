// Package logging builds the zap logger shared by every evtq component.
// Logs go to stderr so they never mix with events written to stdout.
package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelTrace = "TRACE"
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// New returns a logger writing to stderr. encoding is "console" or "json".
func New(level, encoding string) (*zap.Logger, error) {
	sink, _, err := zap.Open("stderr")
	if err != nil {
		return nil, err
	}
	return NewWithSink(level, encoding, sink)
}

// NewWithSink is New writing to sink.
func NewWithSink(level, encoding string, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	logLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		LevelKey:       "level",
		TimeKey:        "timestamp",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.RFC3339),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(encoding) {
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log encoding %q", encoding)
	}

	core := zapcore.NewCore(encoder, sink, logLevel)
	return zap.New(core,
		zap.ErrorOutput(sink),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// ParseLevel maps a level name to an atomic level, trace being debug.
func ParseLevel(level string) (zap.AtomicLevel, error) {
	switch strings.ToUpper(level) {
	case LevelDebug, LevelTrace:
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	case "", LevelInfo:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	case LevelWarn:
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	case LevelError:
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel), nil
	}
	return zap.AtomicLevel{}, fmt.Errorf("unknown log level %q", level)
}
