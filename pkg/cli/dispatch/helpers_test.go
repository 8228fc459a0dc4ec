package dispatch_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/stretchr/testify/require"
)

const testClusterID = "abcdefghijklmno"

func newLogger(t *testing.T, level logging.Severity) (*logging.Logger, *bytes.Buffer) {
	t.Helper()

	var console bytes.Buffer

	log, err := logging.New(logging.Config{
		Console:      &console,
		ConsoleLevel: level,
		FilePath:     filepath.Join(t.TempDir(), "bibigrid.log"),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log, &console
}

// fakeAcquirer hands out a fixed provider set.
type fakeAcquirer struct {
	set   *provider.Set
	calls atomic.Int32
}

func (f *fakeAcquirer) GetProviders(_ context.Context, _ []v1alpha1.Configuration, _ *logging.Logger) *provider.Set {
	f.calls.Add(1)

	if f.set == nil {
		return provider.NewSet()
	}

	return f.set
}

// closingProvider returns a mock that must be closed exactly once.
func closingProvider(name string, closeErr error) *provider.MockProvider {
	prov := provider.NewMockProvider()
	prov.On("Name").Return(name).Maybe()
	prov.On("Cloud").Return("local").Maybe()
	prov.On("Close").Return(closeErr).Once()

	return prov
}

// stubMemory returns a fixed cluster id.
type stubMemory struct {
	id    string
	reads atomic.Int32
}

func (s *stubMemory) ReadLastClusterID(_ *logging.Logger) string {
	s.reads.Add(1)

	return s.id
}

// stubTimer reports a fixed total.
type stubTimer struct {
	total   time.Duration
	started bool
	stopped bool
	stages  int
}

func (s *stubTimer) Start()    { s.started = true }
func (s *stubTimer) NewStage() { s.stages++ }
func (s *stubTimer) Stop()     { s.stopped = true }

func (s *stubTimer) GetTiming() (time.Duration, time.Duration) {
	return s.total, s.total
}

func countLines(out, substr string) int {
	count := 0

	for line := range strings.SplitSeq(out, "\n") {
		if strings.Contains(line, substr) {
			count++
		}
	}

	return count
}
