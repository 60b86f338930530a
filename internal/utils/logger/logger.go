package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var globalLogger *zap.SugaredLogger

// ParseLevel maps a config level name to a zap level. Unknown names fall back to info.
// ParseLevel 将配置中的级别名称映射为 zap 级别，未知名称回退为 info。
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Init initializes the global logger based on configuration.
// Reports may be written to stdout, so console logs always go to stderr.
// Init 根据配置初始化全局日志记录器。报告可能写到 stdout，因此控制台日志始终输出到 stderr。
func Init(cfg LoggingConfig) {
	writeSyncer := zapcore.AddSync(os.Stderr)

	if cfg.Enabled && cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			// Fall back to stderr if we can't create the directory
			// 如果无法创建目录，则回退到 stderr
			globalLogger = zap.NewExample().Sugar()
			globalLogger.Warnf("[WARN] Failed to create log directory: %v", err)
		} else {
			rotator := &lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			writeSyncer = zapcore.AddSync(rotator)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := ParseLevel(cfg.Level)
	core := zapcore.NewCore(encoder, writeSyncer, level)
	globalLogger = zap.New(core, zap.AddCaller()).Sugar()

	globalLogger.Debugf("[LOG] Logging initialized (Level: %s, Path: %s)", level, cfg.Path)
}

// Sync flushes any buffered log entries.
// Sync 刷新所有缓存的日志条目。
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Get returns the logger from context or global logger
// Get 从 Context 或全局日志记录器返回 Logger。
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	if globalLogger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewExample().Sugar()
		}
		return l.Sugar()
	}
	return globalLogger
}

// WithContext adds logger to context
// WithContext 将 Logger 添加到 Context。
func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// Nop returns a logger that discards everything. Used by tests and library callers.
// Nop 返回一个丢弃所有输出的 Logger。
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
