package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	sugar = build(os.Getenv("ENVIRONMENT")).Sugar()
}

func build(environment string) *zap.Logger {
	var cfg zap.Config
	if environment == "development" || environment == "" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Configure rebuilds the global logger for the given environment. Call it once
// from main after the config is loaded.
func Configure(environment string) {
	sugar = build(environment).Sugar()
}

// Replace swaps the global logger, mostly for tests (zaptest / zap.NewNop).
func Replace(l *zap.Logger) {
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Helper for order transition logs
func LogOrderError(orderID, action string, err error) {
	sugar.Warnw("order transition failed", "action", action, "order_id", orderID, "error", err)
}

func Sync() {
	_ = sugar.Sync()
}
