// Package utils предоставляет файловый логгер для TUI приложения.
//
// TUI занимает терминал целиком, поэтому логи пишутся в .log файл
// (produtor-chat-YYYY-MM-DD-HH-MM.log) через zap в JSON формате.
// Значения чувствительных ключей (senha, password, token) маскируются.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logFile  *os.File
	logger   *zap.SugaredLogger
	logMutex sync.Mutex

	// level меняется через SetDebug, в том числе после InitLogger.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// SetDebug включает или выключает Debug сообщения (app.debug в config.yaml).
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// InitLogger создает .log файл в текущей директории.
func InitLogger() error {
	return InitLoggerIn(".")
}

// InitLoggerIn создает/открывает .log файл в указанной директории.
//
// Имя файла: produtor-chat-YYYY-MM-DD-HH-MM.log.
// Повторный вызов ничего не делает.
func InitLoggerIn(dir string) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logger != nil {
		return nil
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-15-04")
	filename := filepath.Join(dir, fmt.Sprintf("produtor-chat-%s.log", timestamp))

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	logFile = f
	logger = zap.New(core).Sugar()
	logger.Infow("Logger initialized", "file", filename)

	return nil
}

// SetLogger подменяет логгер (тесты, встраивание в другое приложение).
func SetLogger(l *zap.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if l == nil {
		logger = nil
		return
	}
	logger = l.Sugar()
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Infow(msg, sanitizeKVs(keyvals)...)
	}
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Errorw(msg, sanitizeKVs(keyvals)...)
	}
}

// Debug - отладочное сообщение.
func Debug(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Debugw(msg, sanitizeKVs(keyvals)...)
	}
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Warnw(msg, sanitizeKVs(keyvals)...)
	}
}

func current() *zap.SugaredLogger {
	logMutex.Lock()
	defer logMutex.Unlock()
	return logger
}

// Close сбрасывает буферы и закрывает лог-файл.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
	}
}

// redactKeys — ключи, значения которых не попадают в лог.
var redactKeys = map[string]struct{}{
	"password":     {},
	"senha":        {},
	"secret":       {},
	"token":        {},
	"access_token": {},
	"api_key":      {},
}

func sanitizeKVs(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.ToLower(strings.TrimSpace(fmt.Sprint(kv[i])))
		if _, ok := redactKeys[key]; ok {
			out = append(out, kv[i], "[REDACTED]")
			continue
		}
		out = append(out, kv[i], kv[i+1])
	}
	return out
}
