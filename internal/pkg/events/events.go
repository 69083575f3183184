package events

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger emits structured business events (lead created, assigned, converted)
// alongside whatever the request log records.
type Logger struct {
	l *zap.Logger
}

func New(levelStr, appEnv string) *Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return &Logger{l: l}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func (lg *Logger) LogEvent(category, action string, metadata map[string]any) {
	fields := make([]zap.Field, 0, len(metadata)+2)
	fields = append(fields, zap.String("category", category), zap.String("action", action))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}
	lg.l.Info("event", fields...)
}

// Zap exposes the underlying logger for the request middleware.
func (lg *Logger) Zap() *zap.Logger {
	return lg.l
}

func (lg *Logger) Sync() {
	_ = lg.l.Sync()
}
