package action_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testClusterID = "abcdefghijklmno"

func newLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()

	var console bytes.Buffer

	log, err := logging.New(logging.Config{
		Console:      &console,
		ConsoleLevel: logging.Debug,
		FilePath:     filepath.Join(t.TempDir(), "bibigrid.log"),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log, &console
}

func newMockProvider(name, cloud string) *provider.MockProvider {
	prov := provider.NewMockProvider()
	prov.On("Name").Return(name).Maybe()
	prov.On("Cloud").Return(cloud).Maybe()

	return prov
}

func masterNode(address string) provider.NodeInfo {
	return provider.NodeInfo{
		Name:      provider.MasterName(testClusterID),
		ClusterID: testClusterID,
		Role:      provider.RoleMaster,
		State:     "running",
		Address:   address,
	}
}

func workerNode(index int) provider.NodeInfo {
	return provider.NodeInfo{
		Name:      provider.WorkerName(testClusterID, index),
		ClusterID: testClusterID,
		Role:      provider.RoleWorker,
		State:     "running",
	}
}

func readRecord(t *testing.T, path string) memory.Record {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record memory.Record
	require.NoError(t, yaml.Unmarshal(data, &record))

	return record
}
