package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/sirupsen/logrus"
)

// Factory opens a provider for one configuration entry.
type Factory func(ctx context.Context, cfg v1alpha1.Configuration, log logrus.FieldLogger) (Provider, error)

// Acquirer opens the providers of a set of configurations.
type Acquirer interface {
	GetProviders(ctx context.Context, configs []v1alpha1.Configuration, log *logging.Logger) *Set
}

// Registry maps infrastructure names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[v1alpha1.Infrastructure]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[v1alpha1.Infrastructure]Factory{}}
}

// Register adds or replaces the factory for infra.
func (r *Registry) Register(infra v1alpha1.Infrastructure, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[normalize(infra)] = factory
}

// Lookup returns the factory registered for infra.
func (r *Registry) Lookup(infra v1alpha1.Infrastructure) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[normalize(infra)]

	return factory, ok
}

// Names returns the registered infrastructures in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for infra := range r.factories {
		names = append(names, string(infra))
	}

	slices.Sort(names)

	return names
}

// GetProviders opens one provider per configuration, in order.
func (r *Registry) GetProviders(ctx context.Context, configs []v1alpha1.Configuration, log *logging.Logger) *Set {
	return GetProviders(ctx, r, configs, log)
}

// GetProviders opens one provider per configuration, in order. If any of them
// cannot be opened the error is logged, the providers opened so far are
// closed and an empty Set is returned.
func GetProviders(
	ctx context.Context,
	registry *Registry,
	configs []v1alpha1.Configuration,
	log *logging.Logger,
) *Set {
	opened := make([]Provider, 0, len(configs))
	bridge := log.Logrus()

	for idx, cfg := range configs {
		prov, err := open(ctx, registry, cfg, bridge.WithField("configuration", idx))
		if err != nil {
			log.Errorf("Failed to open provider for configuration %d: %v", idx, err)

			closeErr := NewSet(opened...).Close()
			if closeErr != nil {
				log.Warnf("Failed to close providers: %v", closeErr)
			}

			return NewSet()
		}

		log.Debugf("Opened %s provider (cloud %q)", prov.Name(), prov.Cloud())
		opened = append(opened, prov)
	}

	return NewSet(opened...)
}

func open(ctx context.Context, registry *Registry, cfg v1alpha1.Configuration, log logrus.FieldLogger) (Provider, error) {
	factory, ok := registry.Lookup(cfg.Infrastructure)
	if !ok {
		return nil, fmt.Errorf(
			"%w: %q (registered: %s)",
			ErrUnknownInfrastructure,
			cfg.Infrastructure,
			strings.Join(registry.Names(), ", "),
		)
	}

	prov, err := factory(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", normalize(cfg.Infrastructure), err)
	}

	return prov, nil
}

func normalize(infra v1alpha1.Infrastructure) v1alpha1.Infrastructure {
	return v1alpha1.Infrastructure(strings.ToLower(strings.TrimSpace(string(infra))))
}
