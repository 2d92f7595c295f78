package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the process logger from the app config. Every entry carries
// the app name. Stdout always receives logs; when LogPath is set a rotating
// <LogPath>/<Name>.log receives the same entries as JSON.
func InitLogger(cfg AppConfig) (*zap.Logger, error) {
	return newLogger(cfg, zapcore.Lock(os.Stdout))
}

func newLogger(cfg AppConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := logLevel(cfg)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "barbershop-booking"
	}

	// Debug runs are read by people, so stdout switches to the console encoder.
	consoleEncoder := zapcore.NewJSONEncoder(encoderConfig(false))
	if cfg.Debug {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig(true))
	}
	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, console, level)}

	if cfg.LogPath != "" {
		if err := os.MkdirAll(cfg.LogPath, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", cfg.LogPath, err)
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogPath, name+".log"),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), file, level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("app", name)),
	), nil
}

// logLevel prefers LOG_LEVEL; DEBUG=true without one means debug.
func logLevel(cfg AppConfig) (zapcore.Level, error) {
	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return zapcore.InfoLevel, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		return level, nil
	}
	if cfg.Debug {
		return zapcore.DebugLevel, nil
	}
	return zapcore.InfoLevel, nil
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	if development {
		ec = zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	return ec
}
