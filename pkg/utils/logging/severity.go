package logging

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Severity is the rank of a log entry. Built-in severities share their rank
// with the matching zap level so they can be handed to zap unchanged.
type Severity int8

// Built-in severities, ordered by increasing rank.
const (
	Debug   = Severity(zapcore.DebugLevel)
	Info    = Severity(zapcore.InfoLevel)
	Warning = Severity(zapcore.WarnLevel)
	Error   = Severity(zapcore.ErrorLevel)
)

// Announcement is the synthetic severity used for user-facing milestones such
// as the elapsed-time line. Its rank is above every level zap defines, so no
// console threshold can suppress it.
const Announcement Severity = 42

// AnnouncementName is the label printed for Announcement entries.
const AnnouncementName = "ANNOUNCEMENT"

var (
	// ErrSeverityRank is returned when a synthetic severity does not outrank the built-ins.
	ErrSeverityRank = errors.New("synthetic severity must rank above every built-in severity")
	// ErrSeverityConflict is returned when a name or rank is already registered differently.
	ErrSeverityConflict = errors.New("synthetic severity already registered with a different rank")
)

var registry = struct {
	sync.RWMutex
	names map[Severity]string
	ranks map[string]Severity
}{
	names: map[Severity]string{
		Debug:        "DEBUG",
		Info:         "INFO",
		Warning:      "WARNING",
		Error:        "ERROR",
		Announcement: AnnouncementName,
	},
	ranks: map[string]Severity{
		"DEBUG":          Debug,
		"INFO":           Info,
		"WARNING":        Warning,
		"ERROR":          Error,
		AnnouncementName: Announcement,
	},
}

// Register adds a synthetic severity. Registering a name again with the same
// rank is a no-op.
func Register(name string, rank Severity) (Severity, error) {
	name = strings.ToUpper(strings.TrimSpace(name))

	if rank <= Severity(zapcore.FatalLevel) {
		return 0, fmt.Errorf("%w: %s=%d", ErrSeverityRank, name, rank)
	}

	registry.Lock()
	defer registry.Unlock()

	if existing, ok := registry.ranks[name]; ok {
		if existing == rank {
			return rank, nil
		}

		return 0, fmt.Errorf("%w: %s is %d, not %d", ErrSeverityConflict, name, existing, rank)
	}

	if existing, ok := registry.names[rank]; ok {
		return 0, fmt.Errorf("%w: rank %d is %s", ErrSeverityConflict, rank, existing)
	}

	registry.names[rank] = name
	registry.ranks[name] = rank

	return rank, nil
}

// String returns the label printed between brackets in log lines.
func (s Severity) String() string {
	registry.RLock()
	name, ok := registry.names[s]
	registry.RUnlock()

	if ok {
		return name
	}

	return fmt.Sprintf("LEVEL(%d)", int8(s))
}

// Level converts the severity to the zap level with the same rank.
func (s Severity) Level() zapcore.Level {
	return zapcore.Level(s)
}

// Enabled reports whether an entry at s passes a sink whose threshold is min.
func (s Severity) Enabled(minimum Severity) bool {
	return s >= minimum
}
