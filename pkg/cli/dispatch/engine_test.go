package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/cli/dispatch"
	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errAction = errors.New("boom")
	errClose  = errors.New("connection reset")
)

const elapsedLine = "[ANNOUNCEMENT] --- 1 minutes and 30.00 seconds ---"

func dockerConfigs() []v1alpha1.Configuration {
	return []v1alpha1.Configuration{{Infrastructure: v1alpha1.InfrastructureDocker}}
}

func failingAction(t *testing.T) dispatch.ActionFunc {
	t.Helper()

	return func(context.Context, dispatch.Request) (int, error) {
		t.Error("action must not run")

		return 0, nil
	}
}

func newEngine(
	t *testing.T,
	acquirer provider.Acquirer,
	actions dispatch.ActionSet,
	mem dispatch.MemoryReader,
) (*dispatch.Engine, *bytes.Buffer) {
	t.Helper()

	log, console := newLogger(t, logging.Info)

	return &dispatch.Engine{
		Acquirer: acquirer,
		Actions:  actions,
		Memory:   mem,
		Timer:    &stubTimer{total: 90 * time.Second},
		Log:      log,
		Out:      io.Discard,
	}, console
}

func TestListWithTwoEmptyProviders(t *testing.T) {
	t.Parallel()

	first := closingProvider("docker", nil)
	first.On("ListAllClusters", mock.Anything).Return([]string{}, nil)

	second := closingProvider("hetzner", nil)
	second.On("ListAllClusters", mock.Anything).Return([]string{}, nil)

	acquirer := &fakeAcquirer{set: provider.NewSet(first, second)}
	engine, console := newEngine(t, acquirer, dispatch.DefaultActions(nil), nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{List: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Contains(t, console.String(), "[INFO] Action list selected")
	assert.Contains(t, console.String(), "No clusters found.")
	assert.Equal(t, 1, countLines(console.String(), elapsedLine))

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestTerminateWithoutMemoryIsNoOp(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	store := memory.New(filepath.Join(t.TempDir(), "cluster_memory", ".bibigrid.mem"))

	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)},
		dispatch.ActionSet{Terminate: failingAction(t)}, store)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Terminate: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Contains(t, console.String(), "[WARNING] Couldn't find cluster memory path")
	assert.NotContains(t, console.String(), "Action terminate selected")
	assert.Equal(t, 1, countLines(console.String(), elapsedLine))
	prov.AssertExpectations(t)
}

func TestNoProvidersExitsOne(t *testing.T) {
	t.Parallel()

	acquirer := &fakeAcquirer{}
	engine, console := newEngine(t, acquirer, dispatch.ActionSet{List: failingAction(t)}, nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{List: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitNoProviders, exit)
	assert.Equal(t, int32(1), acquirer.calls.Load())
	assert.Equal(t, 1, countLines(console.String(), elapsedLine))
}

func TestActionCodeIsPassedThrough(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)

	var got dispatch.Request

	actions := dispatch.ActionSet{Ide: func(_ context.Context, req dispatch.Request) (int, error) {
		got = req

		return 1, nil
	}}
	engine, _ := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, &stubMemory{id: testClusterID})

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Ide: true}), dockerConfigs(), "bibigrid.yaml")

	assert.Equal(t, 1, exit)
	assert.Equal(t, testClusterID, got.ClusterID)
	assert.Equal(t, "bibigrid.yaml", got.ConfigPath)
	assert.Equal(t, dockerConfigs(), got.Configs)
	prov.AssertExpectations(t)
}

func TestActionErrorExitsTwoAndReleasesProviders(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	actions := dispatch.ActionSet{Check: func(context.Context, dispatch.Request) (int, error) {
		return 0, errAction
	}}
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Check: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitFailure, exit)
	assert.Contains(t, console.String(), "[ERROR] boom")
	assert.NotContains(t, console.String(), "goroutine")
	assert.Equal(t, 1, countLines(console.String(), elapsedLine))
	prov.AssertExpectations(t)
}

func TestActionErrorInDebugModeLogsTrace(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	actions := dispatch.ActionSet{Check: func(context.Context, dispatch.Request) (int, error) {
		return 0, fmt.Errorf("check docker: %w", errAction)
	}}
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(),
		mustIntent(t, dispatch.Options{Check: true, Debug: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitFailure, exit)
	assert.Contains(t, console.String(), "[ERROR] check docker: boom")
	assert.Contains(t, console.String(), "caused by: boom")
	assert.NotContains(t, console.String(), "goroutine")
	prov.AssertExpectations(t)
}

func TestPanicInDebugModeLogsStack(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	actions := dispatch.ActionSet{List: func(context.Context, dispatch.Request) (int, error) {
		panic("index out of range")
	}}
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(),
		mustIntent(t, dispatch.Options{List: true, Debug: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitFailure, exit)
	assert.Contains(t, console.String(), "action panicked: index out of range")
	assert.Contains(t, console.String(), "goroutine")
	prov.AssertExpectations(t)
}

func TestPanicIsRecoveredAndProvidersReleased(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	actions := dispatch.ActionSet{Create: func(context.Context, dispatch.Request) (int, error) {
		panic("nil map")
	}}
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Create: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitFailure, exit)
	assert.Contains(t, console.String(), "[ANNOUNCEMENT] "+dispatch.CreateNotice)
	assert.Contains(t, console.String(), "action panicked: nil map")
	assert.Equal(t, 1, countLines(console.String(), elapsedLine))
	prov.AssertExpectations(t)
}

func TestCloseErrorDoesNotChangeExit(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", errClose)
	actions := dispatch.ActionSet{List: func(context.Context, dispatch.Request) (int, error) {
		return 0, nil
	}}
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{List: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Contains(t, console.String(), "[WARNING] Couldn't close providers: close docker provider: connection reset")
	prov.AssertExpectations(t)
}

func TestMissingActionIsFailure(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)
	engine, console := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, dispatch.ActionSet{}, nil)

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Check: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitFailure, exit)
	assert.Contains(t, console.String(), dispatch.ErrActionNotImplemented.Error())
	prov.AssertExpectations(t)
}

func TestVersionSkipsProviders(t *testing.T) {
	t.Parallel()

	acquirer := &fakeAcquirer{}

	var out bytes.Buffer

	engine, console := newEngine(t, acquirer, dispatch.DefaultActions(nil), nil)
	engine.Out = &out

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{Version: true}), nil, "")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Contains(t, out.String(), "bibigrid ")
	assert.Zero(t, acquirer.calls.Load())
	assert.NotContains(t, console.String(), "minutes and")
}

func TestRunUsesTimer(t *testing.T) {
	t.Parallel()

	clock := &stubTimer{total: time.Second}
	engine, _ := newEngine(t, &fakeAcquirer{}, dispatch.ActionSet{}, nil)
	engine.Timer = clock

	engine.Run(context.Background(), mustIntent(t, dispatch.Options{List: true}), nil, "")

	require.True(t, clock.started)
	assert.True(t, clock.stopped)
	assert.Zero(t, clock.stages)
}

func TestRunStartsActionStageOnceProvidersAreReady(t *testing.T) {
	t.Parallel()

	clock := &stubTimer{total: time.Second}
	prov := closingProvider("docker", nil)
	actions := dispatch.ActionSet{List: func(context.Context, dispatch.Request) (int, error) {
		return 0, nil
	}}
	engine, _ := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)
	engine.Timer = clock

	exit := engine.Run(context.Background(), mustIntent(t, dispatch.Options{List: true}), dockerConfigs(), "")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Equal(t, 1, clock.stages)
	prov.AssertExpectations(t)
}

func TestRequestCarriesConfigPathAndDebug(t *testing.T) {
	t.Parallel()

	prov := closingProvider("docker", nil)

	var got dispatch.Request

	actions := dispatch.ActionSet{Check: func(_ context.Context, req dispatch.Request) (int, error) {
		got = req

		return 0, nil
	}}
	engine, _ := newEngine(t, &fakeAcquirer{set: provider.NewSet(prov)}, actions, nil)

	exit := engine.Run(context.Background(),
		mustIntent(t, dispatch.Options{Check: true, Debug: true}), dockerConfigs(), "docker.yaml")

	assert.Equal(t, dispatch.ExitSuccess, exit)
	assert.Equal(t, "docker.yaml", got.ConfigPath)
	assert.True(t, got.Debug)
	prov.AssertExpectations(t)
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "--- 0 minutes and 0.00 seconds ---"},
		{in: 1500 * time.Millisecond, want: "--- 0 minutes and 1.50 seconds ---"},
		{in: 61500 * time.Millisecond, want: "--- 1 minutes and 1.50 seconds ---"},
		{in: 125257 * time.Millisecond, want: "--- 2 minutes and 5.26 seconds ---"},
		{in: -time.Second, want: "--- 0 minutes and 0.00 seconds ---"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, dispatch.FormatElapsed(tc.in))
		})
	}
}
