package utils

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	mu           sync.RWMutex
)

// Init builds the process logger. The terminal belongs to the ATM screens, so
// output goes to file (or to "stderr" when explicitly configured).
func Init(environment, level, format, file string) (*zap.Logger, error) {
	var config zap.Config
	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	if format == "json" {
		config.Encoding = "json"
	} else {
		config.Encoding = "console"
	}

	if file == "" {
		file = "atm.log"
	}
	config.OutputPaths = []string{file}
	config.ErrorOutputPaths = []string{file}

	logger, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the process logger. Tests use it with zaptest or observer cores.
func SetLogger(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// Get returns the process logger, or a no-op logger before Init.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Get().Sync()
}

func parseLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func format(message string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

func LogInfo(component, message string, args ...interface{}) {
	Get().Info(format(message, args), zap.String("component", component))
}

func LogSuccess(component, message string, args ...interface{}) {
	Get().Info(format(message, args),
		zap.String("component", component),
		zap.String("outcome", "success"))
}

func LogWarning(component, message string, args ...interface{}) {
	Get().Warn(format(message, args), zap.String("component", component))
}

func LogError(component, message string, err error) {
	if err != nil {
		Get().Error(message, zap.String("component", component), zap.Error(err))
		return
	}
	Get().Error(message, zap.String("component", component))
}

func LogDebug(component, message string, args ...interface{}) {
	Get().Debug(format(message, args), zap.String("component", component))
}

// LogAction records one user action entering the session controller.
func LogAction(sessionID, action, screen string) {
	Get().Info("action",
		zap.String("session_id", sessionID),
		zap.String("action", action),
		zap.String("screen", screen))
}

// LogOutcome records how an action finished and how long it took.
func LogOutcome(sessionID, action string, err error, duration time.Duration) {
	fields := []zap.Field{
		zap.String("session_id", sessionID),
		zap.String("action", action),
		zap.Duration("duration", duration),
	}
	if err != nil {
		Get().Warn("action rejected", append(fields, zap.Error(err))...)
		return
	}
	Get().Info("action completed", fields...)
}

func LogDB(operation, detail string) {
	Get().Debug(detail, zap.String("component", "store"), zap.String("operation", operation))
}
