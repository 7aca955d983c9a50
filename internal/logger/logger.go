// internal/logger/logger.go
package logger

import (
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	LogFile    string // пусто: без файла
	MaxSize    int    // мегабайты
	MaxAge     int    // дни
	MaxBackups int    // количество файлов
	Compress   bool   // сжимать ротированные файлы
	Debug      bool

	// Console: цветной вывод в stdout. В TUI выключен: терминал занят bubbletea.
	Console bool
	// Buffer: необязательный приёмник последних записей для TUI.
	Buffer *LogBuffer
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "logs/launchpad.log",
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
		Console:    true,
	}
}

// Logger расширяет функционал zap.Logger
type Logger struct {
	*zap.Logger
	config *Config
}

// New собирает логгер: цветная консоль, JSON-файл с ротацией и буфер для TUI.
// Каждый из выходов необязателен; без выходов получается no-op логгер.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if cfg.Console {
		consoleCore := zapcore.NewCore(PrettyEncoder(), zapcore.Lock(os.Stdout), level)
		cores = append(cores, &FieldFilterCore{core: consoleCore})
	}

	if cfg.LogFile != "" {
		logRotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(logRotator), level))
	}

	if cfg.Buffer != nil {
		cores = append(cores, zapcore.NewCore(bufferEncoder(), cfg.Buffer, level))
	}

	if len(cores) == 0 {
		return &Logger{Logger: zap.NewNop(), config: cfg}, nil
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

func fileEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func bufferEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
}

// WithOperation создает логгер для конкретной операции
func (l *Logger) WithOperation(operation string) *zap.Logger {
	return l.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// TrackPerformance отслеживает производительность операции
func (l *Logger) TrackPerformance(operation string) (opLogger *zap.Logger, end func()) {
	start := time.Now()
	opLogger = l.WithOperation(operation)
	opLogger.Debug("Starting operation")

	return opLogger, func() {
		opLogger.Debug("Operation completed", zap.Duration("duration", time.Since(start)))
	}
}

// Sync реализует безопасный вызов Sync: stdout/stderr на терминале Sync не поддерживают.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
