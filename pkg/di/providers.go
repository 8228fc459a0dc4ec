package di

import (
	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/io/settings"
	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/svc/provider/docker"
	"github.com/bibiserv/bibigrid/pkg/svc/provider/hetzner"
	"github.com/bibiserv/bibigrid/pkg/utils/timer"
	"github.com/samber/do/v2"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers default implementations for the settings, timer, provider
// registry and cluster memory.
func NewRuntime() *Runtime {
	return New(
		provideSettings,
		provideTimer,
		provideProviderRegistry,
		provideMemoryStore,
	)
}

// provideSettings registers the process settings read from the environment.
func provideSettings(i Injector) error {
	do.Provide(i, func(Injector) (settings.Settings, error) {
		return settings.Load() //nolint:wrapcheck // wrapped by the resolver
	})

	return nil
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideProviderRegistry registers the factories of every supported infrastructure.
func provideProviderRegistry(i Injector) error {
	do.Provide(i, func(Injector) (*provider.Registry, error) {
		return DefaultRegistry(), nil
	})

	return nil
}

// provideMemoryStore registers the cluster memory at the configured path.
func provideMemoryStore(i Injector) error {
	do.Provide(i, func(injector Injector) (*memory.Store, error) {
		cfg, err := ResolveSettings(injector)
		if err != nil {
			return nil, err
		}

		return memory.New(cfg.ClusterMemoryPath), nil
	})

	return nil
}

// DefaultRegistry returns a registry with the docker and hetzner factories.
func DefaultRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(v1alpha1.InfrastructureDocker, docker.NewFactory())
	registry.Register(v1alpha1.InfrastructureHetzner, hetzner.NewFactory())

	return registry
}
