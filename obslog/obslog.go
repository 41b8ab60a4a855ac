// Package obslog holds the process-wide zap logger.
package obslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger = zap.NewNop()
	closer       io.Closer
)

// L returns the global logger. It discards everything until Init is called.
func L() *zap.Logger { return globalLogger }

// Options selects where and how log lines are written.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // legacy, console, json
	File      string
	ToFile    bool
	ToConsole bool
	Caller    bool
}

// Formats lists the accepted values of Options.Format.
var Formats = []string{"legacy", "console", "json"}

// FromEnv overlays LOG_LEVEL, LOG_FORMAT, LOG_FILE, LOG_TO_FILE,
// LOG_TO_CONSOLE and LOG_CALLER on opts.
func FromEnv(opts Options) Options {
	opts.Level = getenvDefault("LOG_LEVEL", opts.Level)
	opts.Format = getenvDefault("LOG_FORMAT", opts.Format)
	opts.File = getenvDefault("LOG_FILE", opts.File)
	opts.ToFile = getenvBool("LOG_TO_FILE", opts.ToFile)
	opts.ToConsole = getenvBool("LOG_TO_CONSOLE", opts.ToConsole)
	opts.Caller = getenvBool("LOG_CALLER", opts.Caller)
	return opts
}

// Init builds the global logger from opts. With neither console nor file
// output enabled the logger stays a no-op, since the terminal belongs to
// the UI.
func Init(opts Options) error {
	logger, c, err := New(opts)
	if err != nil {
		return err
	}
	Close()
	globalLogger = logger
	closer = c
	return nil
}

// New builds a logger without installing it. The returned closer, if not
// nil, releases the log file.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	format := normalizeFormat(opts.Format)

	var cores []zapcore.Core
	var c io.Closer

	if opts.ToConsole {
		cores = append(cores, zapcore.NewCore(encoder(format), zapcore.AddSync(os.Stderr), level))
	}

	if opts.ToFile && strings.TrimSpace(opts.File) != "" {
		if err := ensureDir(filepath.Dir(opts.File)); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		c = f
		cores = append(cores, zapcore.NewCore(encoder(format), zapcore.AddSync(f), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil, nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Caller || format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, c, nil
}

// Close flushes the global logger and releases its file.
func Close() {
	_ = globalLogger.Sync()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	globalLogger = zap.NewNop()
}

// ValidFormat reports whether f is an accepted format name.
func ValidFormat(f string) bool {
	f = strings.ToLower(strings.TrimSpace(f))
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return f == ""
}

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if f != "json" && f != "console" {
		return "legacy"
	}
	return f
}

func encoder(format string) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}
	return zapcore.NewConsoleEncoder(legacyEncoderConfig())
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
