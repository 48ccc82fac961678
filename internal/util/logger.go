package util

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig: 로깅 설정 (레벨, 로그 디렉토리, 로테이션 정책)
type LogConfig struct {
	Level string
	Dir   string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewLoggerWithLevel: 지정된 레벨로 콘솔 출력용 slog 로거를 생성한다.
func NewLoggerWithLevel(level string) *slog.Logger {
	return newTintLogger(os.Stdout, level, false)
}

// NewLogger: 설정에 따라 콘솔 또는 콘솔+파일(로테이션) 로거를 만들고 기본 로거로 등록한다.
// cfg.Dir이 비어있으면 콘솔 로거만 사용한다.
func NewLogger(cfg LogConfig, fileName string) (*slog.Logger, error) {
	if cfg.Dir == "" {
		logger := NewLoggerWithLevel(cfg.Level)
		slog.SetDefault(logger)
		return logger, nil
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("invalid log config: size=%d backups=%d age_days=%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, fileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	logger := newTintLogger(io.MultiWriter(os.Stdout, logFile), cfg.Level, true)
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled", slog.String("path", logFile.Filename))
	return logger, nil
}

func newTintLogger(w io.Writer, level string, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLogLevel(level),
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	}))
}

func parseLogLevel(level string) slog.Level {
	switch Normalize(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
