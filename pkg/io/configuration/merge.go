package configuration

import (
	"fmt"

	"dario.cat/mergo"
)

// MergeConfigurations fills every user entry with the keys of the default
// layer it lacks and then applies the enforced layer on top. A layer given as a
// single mapping applies to every entry, a list applies by index. Empty paths
// are skipped.
func (m *Manager) MergeConfigurations(user []Entry, defaultPath, enforcedPath string) ([]Entry, error) {
	defaults, err := m.readLayer(defaultPath, len(user))
	if err != nil {
		return nil, fmt.Errorf("default configuration: %w", err)
	}

	enforced, err := m.readLayer(enforcedPath, len(user))
	if err != nil {
		return nil, fmt.Errorf("enforced configuration: %w", err)
	}

	merged := make([]Entry, 0, len(user))

	for idx, entry := range user {
		result := deepCopy(defaults[idx])

		err = mergo.Merge(&result, deepCopy(entry), mergo.WithOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to merge configuration %d: %w", idx, err)
		}

		err = mergo.Merge(&result, deepCopy(enforced[idx]), mergo.WithOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to enforce configuration %d: %w", idx, err)
		}

		merged = append(merged, result)
	}

	return merged, nil
}

// readLayer returns one mapping per user entry; entries without a layer
// counterpart get an empty mapping.
func (m *Manager) readLayer(path string, count int) ([]Entry, error) {
	layer := make([]Entry, count)
	for idx := range layer {
		layer[idx] = Entry{}
	}

	if path == "" {
		return layer, nil
	}

	resolved := m.Resolve(path)

	entries, err := readEntries(resolved)
	if err != nil {
		m.Log.Warnf("Couldn't read configuration %s: %v", resolved, err)

		return nil, err
	}

	if len(entries) == 1 {
		for idx := range layer {
			layer[idx] = entries[0]
		}

		return layer, nil
	}

	if len(entries) > count {
		return nil, fmt.Errorf("%w: %d > %d", ErrLayerLength, len(entries), count)
	}

	copy(layer, entries)

	return layer, nil
}

// deepCopy clones nested mappings and lists so merges never write through to
// the inputs.
func deepCopy(entry Entry) Entry {
	out := make(Entry, len(entry))
	for key, value := range entry {
		out[key] = copyValue(value)
	}

	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return deepCopy(v)
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = copyValue(item)
		}

		return out
	default:
		return v
	}
}
