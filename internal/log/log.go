package log

import (
	"go.uber.org/zap"
)

var defaultLogger = zap.NewNop()

func Get() *zap.Logger {
	return defaultLogger
}

// Set replaces the process logger with a console logger writing to
// stderr. Debug enables debug-level output.
func Set(debug bool) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      debug,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	var err error
	defaultLogger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

func Flush() {
	_ = defaultLogger.Sync()
}
