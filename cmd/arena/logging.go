package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/arena/config"
)

const (
	logDir      = "logs"
	logFileName = "arena.log"
	maxLogSize  = 10 * 1024 * 1024 // 10 MiB
)

// setupLogging opens the log file under dir when debug is set, rotating it past maxLogSize
// The terminal owns stdout/stderr, so without debug every log line is discarded
// Returns nil when logging is disabled or the file cannot be opened
func setupLogging(debug bool, dir string) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if dir == "" {
		dir = logDir
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		stamp := time.Now().Format("20060102_150405")
		rotated := filepath.Join(dir, fmt.Sprintf("%s_%s.log", strings.TrimSuffix(logFileName, ".log"), stamp))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// newLogger builds the structured logger writing to out; a nil out yields a no-op logger
// Every line carries the run's session id
func newLogger(cfg config.LoggingConfig, out io.Writer) (*zap.Logger, error) {
	if out == nil {
		return zap.NewNop(), nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("logging level %q: %w", cfg.Level, err)
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encCfg.ConsoleSeparator = "  "
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	return zap.New(core).With(zap.String("session", uuid.NewString())), nil
}
