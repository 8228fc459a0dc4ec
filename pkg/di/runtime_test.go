package di_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bibiserv/bibigrid/pkg/di"
	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errHandler = errors.New("handler error")
	errModule  = errors.New("module error")
)

func memoryModule(path string) di.Module {
	return func(i di.Injector) error {
		do.ProvideValue(i, memory.New(path))

		return nil
	}
}

func TestRuntime_Invoke_AppliesModulesBeforeHandler(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cluster_memory.yaml")
	rt := di.New(memoryModule(path))

	err := rt.Invoke(func(i di.Injector) error {
		store, resolveErr := di.ResolveMemoryStore(i)
		require.NoError(t, resolveErr)

		return store.Write(memory.Record{ClusterID: "abc"})
	})

	require.NoError(t, err)

	assert.Equal(t, "abc", memory.New(path).ReadLastClusterID(logging.Nop()))
}

func TestRuntime_Invoke_ModuleOrder(t *testing.T) {
	t.Parallel()

	var order []string

	record := func(name string) di.Module {
		return func(di.Injector) error {
			order = append(order, name)

			return nil
		}
	}

	rt := di.New(record("settings"), nil, record("registry"))

	err := rt.Invoke(func(di.Injector) error {
		order = append(order, "handler")

		return nil
	}, record("timer"))

	require.NoError(t, err)
	assert.Equal(t, []string{"settings", "registry", "timer", "handler"}, order)
}

func TestRuntime_Invoke_ModuleErrorSkipsHandler(t *testing.T) {
	t.Parallel()

	rt := di.New(func(di.Injector) error { return errModule })

	called := false
	err := rt.Invoke(func(di.Injector) error {
		called = true

		return nil
	})

	require.ErrorIs(t, err, errModule)
	assert.False(t, called)
}

func TestRuntime_Invoke_HandlerErrorIsReturnedUnwrapped(t *testing.T) {
	t.Parallel()

	err := di.New().Invoke(func(di.Injector) error { return errHandler })

	assert.Equal(t, errHandler, err)
}

func TestRuntime_Invoke_FreshInjectorPerCall(t *testing.T) {
	t.Parallel()

	rt := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (*provider.Registry, error) {
			return provider.NewRegistry(), nil
		})

		return nil
	})

	var registries []*provider.Registry

	for range 2 {
		err := rt.Invoke(func(i di.Injector) error {
			registry, resolveErr := di.ResolveProviderRegistry(i)
			registries = append(registries, registry)

			return resolveErr
		})
		require.NoError(t, err)
	}

	require.Len(t, registries, 2)
	assert.NotSame(t, registries[0], registries[1])
}

func TestRuntime_Invoke_MissingDependency(t *testing.T) {
	t.Parallel()

	err := di.New().Invoke(func(i di.Injector) error {
		_, resolveErr := di.ResolveMemoryStore(i)

		return resolveErr
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve cluster memory dependency")
}

func TestRunEWithRuntime_PassesCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cluster_memory.yaml")
	cmd := &cobra.Command{Use: "bibigrid"}

	var received *cobra.Command

	runE := di.RunEWithRuntime(di.New(memoryModule(path)), func(c *cobra.Command, i di.Injector) error {
		received = c

		_, err := di.ResolveMemoryStore(i)

		return err
	})

	require.NoError(t, runE(cmd, []string{"ignored"}))
	assert.Same(t, cmd, received)
}

func TestRunEWithRuntime_HandlerError(t *testing.T) {
	t.Parallel()

	runE := di.RunEWithRuntime(di.New(), func(*cobra.Command, di.Injector) error {
		return errHandler
	})

	assert.Equal(t, errHandler, runE(&cobra.Command{Use: "bibigrid"}, nil))
}
