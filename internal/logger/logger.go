// Package logger builds the diagnostic logger. Diagnostics go to stderr so
// they never mix with the report on stdout.
package logger

import (
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewWithWriter returns a console logger writing to w at debug level when
// verbose is set, and a no-op logger otherwise. Every entry carries the run id.
func NewWithWriter(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core).With(zap.String("run_id", uuid.NewString()))
}

// customTimeEncoder formats time with millisecond precision.
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
