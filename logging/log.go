package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerKey struct{}

func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, logger)
}

func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return New(zap.DebugLevel, FileConfig{}, false)
}

// FileConfig controls the rotated log file. No file is written when Name is
// empty.
type FileConfig struct {
	Name string
	// MaxSize in megabytes before the file is rotated.
	MaxSize int
	// MaxBackups is the number of rotated files kept, 0 keeps all of them.
	MaxBackups int
}

// New logs to stdout at the given level and, if configured, to a rotated
// file at debug level.
func New(level zapcore.LevelEnabler, file FileConfig, json bool) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	var encoder zapcore.Encoder
	if json {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)}
	if file.Name != "" {
		rotated := &lumberjack.Logger{
			Filename:   file.Name,
			MaxSize:    file.MaxSize,
			MaxBackups: file.MaxBackups,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotated), zap.DebugLevel))
	}
	return zap.New(zapcore.NewTee(cores...))
}
