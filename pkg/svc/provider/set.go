package provider

import (
	"errors"
	"fmt"
	"sync"
)

// Set owns the providers opened for one invocation. Close releases each of
// them exactly once.
type Set struct {
	mu        sync.Mutex
	providers []Provider
	closed    bool
}

// NewSet returns a Set owning providers.
func NewSet(providers ...Provider) *Set {
	return &Set{providers: providers}
}

// Len returns the number of providers. A nil Set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.providers)
}

// All returns the providers in configuration order.
func (s *Set) All() []Provider {
	if s == nil {
		return nil
	}

	out := make([]Provider, len(s.providers))
	copy(out, s.providers)

	return out
}

// First returns the master provider, or nil for an empty Set.
func (s *Set) First() Provider {
	if s == nil || len(s.providers) == 0 {
		return nil
	}

	return s.providers[0]
}

// Close closes every provider. Later calls are no-ops.
func (s *Set) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	var errs []error

	for _, prov := range s.providers {
		err := prov.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close %s provider: %w", prov.Name(), err))
		}
	}

	return errors.Join(errs...)
}
