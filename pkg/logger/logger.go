package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger instance, initialized once at startup.
var Log *zap.Logger

// Init builds the global logger. Debug mode uses the development
// config (console encoder, human timestamps), production uses JSON.
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = l
	return nil
}

// Sync flushes buffered log entries. Call via defer in main.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
