package logging

import (
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logrus returns a logrus logger whose entries are forwarded to both sinks of l.
// Provider adapters log through it so their structured fields end up in the
// same console and file output as everything else.
func (l *Logger) Logrus() *logrus.Logger {
	bridge := logrus.New()
	bridge.SetOutput(io.Discard)
	bridge.SetLevel(logrus.TraceLevel)
	bridge.AddHook(&forwardHook{target: l})

	return bridge
}

type forwardHook struct {
	target *Logger
}

func (h *forwardHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *forwardHook) Fire(entry *logrus.Entry) error {
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, entry.Data[key]))
	}

	h.target.current().Log(severityFromLogrus(entry.Level).Level(), entry.Message, fields...)

	return nil
}

func severityFromLogrus(level logrus.Level) Severity {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return Error
	case logrus.WarnLevel:
		return Warning
	case logrus.InfoLevel:
		return Info
	case logrus.DebugLevel, logrus.TraceLevel:
		return Debug
	default:
		return Debug
	}
}
