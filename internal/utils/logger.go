package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults of the log file.
const (
	DefaultLogMaxSizeMegabytes = 10
	DefaultLogMaxBackups       = 3
	DefaultLogMaxAgeDays       = 28
)

// LogOptions configures the optional rotating log file.
type LogOptions struct {
	FileName          string
	MaxSizeMegabytes  int
	MaxBackups        int
	MaxAgeDays        int
	CompressRotations bool
}

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// When options name a log file, every entry is also written to that file, rotated by lumberjack.
func NewApplicationLogger(options ...LogOptions) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	consoleLogger, buildError := config.Build()
	if buildError != nil {
		return nil, buildError
	}
	if len(options) == 0 || options[0].FileName == "" {
		return consoleLogger, nil
	}

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig),
		zapcore.AddSync(newRotatingWriter(options[0])),
		config.Level,
	)
	return zap.New(zapcore.NewTee(consoleLogger.Core(), fileCore)), nil
}

func newRotatingWriter(options LogOptions) *lumberjack.Logger {
	maxSize := options.MaxSizeMegabytes
	if maxSize <= 0 {
		maxSize = DefaultLogMaxSizeMegabytes
	}
	maxBackups := options.MaxBackups
	if maxBackups <= 0 {
		maxBackups = DefaultLogMaxBackups
	}
	maxAge := options.MaxAgeDays
	if maxAge <= 0 {
		maxAge = DefaultLogMaxAgeDays
	}
	return &lumberjack.Logger{
		Filename:   options.FileName,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   options.CompressRotations,
	}
}
