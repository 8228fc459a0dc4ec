package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	fcolor "github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile is the persistent sink used when Config.FilePath is empty.
const DefaultLogFile = "bibigrid.log"

// DefaultTimeLayout mirrors the timestamp printed in front of every log line.
const DefaultTimeLayout = "2006-01-02 15:04:05,000"

// Config describes the two sinks of a Logger.
type Config struct {
	// Console receives entries at or above ConsoleLevel. Defaults to os.Stderr.
	Console io.Writer
	// ConsoleLevel is the initial console threshold. The zero value is Info.
	ConsoleLevel Severity
	// FilePath is the append-only persistent sink. Defaults to DefaultLogFile.
	FilePath string
	// MaxSizeMB rotates the persistent sink once it grows past this size.
	MaxSizeMB int
	// MaxBackups bounds the number of rotated files kept next to FilePath.
	MaxBackups int
	// Color enables coloured level labels on the console sink.
	Color bool
	// TimeLayout overrides DefaultTimeLayout.
	TimeLayout string
}

// Logger is the dual-sink logging facility. The console sink has a mutable
// threshold; the file sink always captures Debug and above.
type Logger struct {
	mu      sync.RWMutex
	console zap.AtomicLevel
	base    *zap.Logger
	file    *lumberjack.Logger
	path    string
}

// New builds a Logger and attaches its sinks.
func New(cfg Config) (*Logger, error) {
	logger := &Logger{console: zap.NewAtomicLevelAt(Info.Level())}

	err := logger.Initialize(cfg)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{console: zap.NewAtomicLevelAt(Info.Level()), base: zap.NewNop()}
}

// Initialize replaces both sinks. Entries logged afterwards are written once
// per sink no matter how often Initialize has been called.
func (l *Logger) Initialize(cfg Config) error {
	cfg = withDefaults(cfg)

	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	// lumberjack opens lazily; an empty write surfaces open failures now.
	_, err := file.Write(nil)
	if err != nil {
		return fmt.Errorf("open log file %q: %w", cfg.FilePath, err)
	}

	l.console.SetLevel(cfg.ConsoleLevel.Level())

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(cfg.TimeLayout, consoleLevelEncoder(cfg.Color))),
			zapcore.Lock(zapcore.AddSync(cfg.Console)),
			l.console,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(cfg.TimeLayout, plainLevelEncoder)),
			zapcore.AddSync(file),
			Debug.Level(),
		),
	)

	l.mu.Lock()
	previous := l.file
	l.base = zap.New(core)
	l.file = file
	l.path = cfg.FilePath
	l.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}

	return nil
}

// Path returns the persistent sink location.
func (l *Logger) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.path
}

// ConsoleLevel returns the current console threshold.
func (l *Logger) ConsoleLevel() Severity {
	return Severity(l.console.Level())
}

// Log writes msg at the given severity.
func (l *Logger) Log(severity Severity, msg string) {
	l.current().Log(severity.Level(), msg)
}

// Logf formats and writes a message at the given severity.
func (l *Logger) Logf(severity Severity, format string, args ...any) {
	l.Log(severity, fmt.Sprintf(format, args...))
}

// Debugf logs at Debug.
func (l *Logger) Debugf(format string, args ...any) { l.Logf(Debug, format, args...) }

// Infof logs at Info.
func (l *Logger) Infof(format string, args ...any) { l.Logf(Info, format, args...) }

// Warnf logs at Warning.
func (l *Logger) Warnf(format string, args ...any) { l.Logf(Warning, format, args...) }

// Errorf logs at Error.
func (l *Logger) Errorf(format string, args ...any) { l.Logf(Error, format, args...) }

// Announcef logs at Announcement.
func (l *Logger) Announcef(format string, args ...any) { l.Logf(Announcement, format, args...) }

// Sync flushes both sinks.
func (l *Logger) Sync() error {
	return l.current().Sync()
}

// Close flushes and releases the persistent sink.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.base != nil {
		_ = l.base.Sync()
	}

	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	return err
}

func (l *Logger) current() *zap.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.base == nil {
		return zap.NewNop()
	}

	return l.base
}

// =============================================================================
// Encoding
// =============================================================================

func withDefaults(cfg Config) Config {
	if cfg.Console == nil {
		cfg.Console = os.Stderr
	}

	if cfg.FilePath == "" {
		cfg.FilePath = DefaultLogFile
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}

	if cfg.TimeLayout == "" {
		cfg.TimeLayout = DefaultTimeLayout
	}

	return cfg
}

func encoderConfig(layout string, level zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "message",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(layout),
		EncodeLevel:      level,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func plainLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + Severity(level).String() + "]")
}

func consoleLevelEncoder(colored bool) zapcore.LevelEncoder {
	if !colored {
		return plainLevelEncoder
	}

	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		c := levelColor(Severity(level))
		c.EnableColor()
		enc.AppendString(c.Sprint("[" + Severity(level).String() + "]"))
	}
}

func levelColor(severity Severity) *fcolor.Color {
	switch {
	case severity >= Announcement:
		return fcolor.New(fcolor.FgGreen, fcolor.Bold)
	case severity >= Error:
		return fcolor.New(fcolor.FgRed)
	case severity >= Warning:
		return fcolor.New(fcolor.FgYellow)
	case severity >= Info:
		return fcolor.New(fcolor.FgBlue)
	default:
		return fcolor.New(fcolor.FgHiBlack)
	}
}
