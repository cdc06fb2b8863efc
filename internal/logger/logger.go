package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin key/value wrapper around a zap sugared logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Options controls how the root logger is built.
type Options struct {
	Development bool
	Level       string
	// File enables a rotated log file next to stdout when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds the root logger. Development mode writes colored console
// output, production writes JSON.
func New(opts Options) (*Logger, error) {
	level := zap.InfoLevel
	if opts.Development {
		level = zap.DebugLevel
	}
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if opts.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    withDefault(opts.MaxSizeMB, 100),
			MaxBackups: withDefault(opts.MaxBackups, 7),
			MaxAge:     withDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(rotated), level))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{sugar: base.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
