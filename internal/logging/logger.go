// Package logging configures the application logger.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Dir is the directory for rotated log files. Empty disables file output.
	Dir string
	// Debug lowers the console level to debug.
	Debug bool
}

// New builds a SugaredLogger writing JSON to stdout and, when Dir is set, to
// a size-rotated file.
func New(opts Options) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	consoleLevel := zapcore.InfoLevel
	if opts.Debug {
		consoleLevel = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), consoleLevel),
	}

	if opts.Dir != "" {
		rotation := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "sniper.log"),
			MaxSize:    100, // megabytes
			MaxAge:     7,   // days
			MaxBackups: 5,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotation), zapcore.InfoLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return logger.Sugar()
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
