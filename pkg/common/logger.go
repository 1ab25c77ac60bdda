package common

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	// Log writes a plain informational message.
	Log(message string)
	// Info writes a message with structured key/value pairs.
	Info(message string, keysAndValues ...any)
	// Error writes a failure together with the error which caused it.
	Error(message string, err error, keysAndValues ...any)
	// Sync flushes buffered entries.
	Sync() error
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewFileLogger logs JSON lines to the file specified by `path` (rotated once it grows too large) and
// human-readable lines to the console.
func NewFileLogger(path string) Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.InfoLevel,
	)
	logger := zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{sugar: logger.Sugar()}
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// NewZapLogger adapts an existing zap logger (for example, an observer core in tests).
func NewZapLogger(logger *zap.Logger) Logger {
	return &zapLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z *zapLogger) Log(message string) {
	z.sugar.Info(message)
}

func (z *zapLogger) Info(message string, keysAndValues ...any) {
	z.sugar.Infow(message, keysAndValues...)
}

func (z *zapLogger) Error(message string, err error, keysAndValues ...any) {
	z.sugar.Errorw(message, append([]any{zap.Error(err)}, keysAndValues...)...)
}

func (z *zapLogger) Sync() error {
	return z.sugar.Sync()
}
