package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

const (
	dirPermissions  = 0o700
	filePermissions = 0o600
)

// ErrMemoryNotFound is returned when no cluster memory has been written yet.
var ErrMemoryNotFound = errors.New("cluster memory not found")

// ErrMalformedMemory is returned when the record is not a YAML mapping.
var ErrMalformedMemory = errors.New("cluster memory is not a mapping")

// Record is the content of the cluster memory.
type Record struct {
	ClusterID  string `yaml:"cluster_id"`
	SSHUser    string `yaml:"ssh_user,omitempty"`
	FloatingIP string `yaml:"floating_ip,omitempty"`
	ConfigPath string `yaml:"config_path,omitempty"`
}

// Store reads and writes the cluster memory at Path.
type Store struct {
	Path string
}

// New returns a Store for path.
func New(path string) *Store {
	return &Store{Path: path}
}

// ReadLastClusterID returns the id of the cluster created last, or "" when it
// is unknown. Problems are logged as warnings and never returned.
func (s *Store) ReadLastClusterID(log *logging.Logger) string {
	fields, err := s.readFields()

	switch {
	case errors.Is(err, ErrMemoryNotFound):
		log.Warnf("Couldn't find cluster memory path %s", s.Path)

		return ""
	case err != nil:
		log.Warnf("Couldn't read configuration %s: %v", s.Path, err)

		return ""
	}

	switch id := fields["cluster_id"].(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// Write replaces the record, creating its directory when needed.
func (s *Store) Write(record Record) error {
	dir := filepath.Dir(s.Path)

	err := os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create cluster memory directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal cluster memory: %w", err)
	}

	err = os.WriteFile(s.Path, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write cluster memory: %w", err)
	}

	return nil
}

// readFields parses the record loosely so that missing or oddly typed fields
// do not fail the lookup.
func (s *Store) readFields() (map[string]any, error) {
	data, err := s.readFile()
	if err != nil {
		return nil, err
	}

	var document any

	err = yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, err //nolint:wrapcheck // logged verbatim
	}

	switch doc := document.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrMalformedMemory, document)
	}
}

func (s *Store) readFile() ([]byte, error) {
	info, err := os.Stat(s.Path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrMemoryNotFound, s.Path)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster memory: %w", err)
	}

	return data, nil
}
