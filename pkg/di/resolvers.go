package di

import (
	"fmt"

	"github.com/bibiserv/bibigrid/pkg/io/settings"
	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveSettings retrieves the process settings from the injector.
func ResolveSettings(injector Injector) (settings.Settings, error) {
	cfg, err := do.Invoke[settings.Settings](injector)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("resolve settings dependency: %w", err)
	}

	return cfg, nil
}

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveProviderRegistry retrieves the provider registry from the injector.
func ResolveProviderRegistry(injector Injector) (*provider.Registry, error) {
	registry, err := do.Invoke[*provider.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provider registry dependency: %w", err)
	}

	return registry, nil
}

// ResolveMemoryStore retrieves the cluster memory store from the injector.
func ResolveMemoryStore(injector Injector) (*memory.Store, error) {
	store, err := do.Invoke[*memory.Store](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve cluster memory dependency: %w", err)
	}

	return store, nil
}

// Handler decorators.

// WithTimer decorates a handler to automatically resolve the timer dependency.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
