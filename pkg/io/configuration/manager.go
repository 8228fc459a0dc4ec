package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"sigs.k8s.io/yaml"
)

// DefaultFileName is read from the config dir when no path is given.
const DefaultFileName = "bibigrid.yaml"

// Entry is one raw configuration mapping.
type Entry = map[string]any

// Manager reads configuration files. Relative paths are resolved against the
// working directory first and ConfigDir second.
type Manager struct {
	ConfigDir string
	Log       *logging.Logger
}

// NewManager returns a Manager resolving relative paths against configDir.
func NewManager(configDir string, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}

	return &Manager{ConfigDir: configDir, Log: log}
}

// ReadConfiguration reads the user configuration at path.
func (m *Manager) ReadConfiguration(path string) ([]Entry, error) {
	if path == "" {
		path = DefaultFileName
	}

	resolved := m.Resolve(path)

	entries, err := readEntries(resolved)
	if err != nil {
		m.Log.Warnf("Couldn't read configuration %s: %v", resolved, err)

		return nil, err
	}

	m.Log.Debugf("Read %d configuration(s) from %s", len(entries), resolved)

	return entries, nil
}

// Resolve returns path as found on disk. Absolute paths and paths that exist
// relative to the working directory are returned unchanged.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) || m.ConfigDir == "" {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	candidate := filepath.Join(m.ConfigDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return path
}

func readEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied configuration path
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var document any

	err = yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return toEntries(document)
}

func toEntries(document any) ([]Entry, error) {
	switch doc := document.(type) {
	case nil:
		return nil, ErrEmptyConfiguration
	case map[string]any:
		return []Entry{doc}, nil
	case []any:
		if len(doc) == 0 {
			return nil, ErrEmptyConfiguration
		}

		entries := make([]Entry, 0, len(doc))

		for idx, item := range doc {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is %T", ErrInvalidConfiguration, idx, item)
			}

			entries = append(entries, entry)
		}

		return entries, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidConfiguration, document)
	}
}

// IsNotExist reports whether err was caused by a missing configuration file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
