package action_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bibiserv/bibigrid/pkg/svc/action"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("unreachable")

func TestListWithoutClusters(t *testing.T) {
	t.Parallel()

	log, console := newLogger(t)

	first := newMockProvider("docker", "local")
	first.On("ListAllClusters", mock.Anything).Return([]string{}, nil)

	second := newMockProvider("hetzner", "fsn1")
	second.On("ListAllClusters", mock.Anything).Return([]string{}, nil)

	code, err := action.List(context.Background(), "", provider.NewSet(first, second), log)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, console.String(), "[INFO] No clusters found.")

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestListRendersNodes(t *testing.T) {
	t.Parallel()

	log, console := newLogger(t)

	prov := newMockProvider("docker", "local")
	prov.On("ListAllClusters", mock.Anything).Return([]string{testClusterID}, nil)
	prov.On("ListNodes", mock.Anything, testClusterID).
		Return([]provider.NodeInfo{workerNode(0), masterNode("172.17.0.2")}, nil)

	code, err := action.List(context.Background(), "", provider.NewSet(prov), log)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	out := console.String()
	assert.Contains(t, out, "CLUSTER ID")
	assert.Contains(t, out, provider.MasterName(testClusterID))
	assert.Contains(t, out, provider.WorkerName(testClusterID, 0))
	assert.Contains(t, out, "172.17.0.2")
}

func TestListFiltersByClusterID(t *testing.T) {
	t.Parallel()

	log, console := newLogger(t)

	prov := newMockProvider("docker", "local")
	prov.On("ListNodes", mock.Anything, "unknown").Return([]provider.NodeInfo{}, nil)

	code, err := action.List(context.Background(), "unknown", provider.NewSet(prov), log)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, console.String(), "Cluster unknown not found.")
	prov.AssertNotCalled(t, "ListAllClusters", mock.Anything)
}

func TestListProviderFailure(t *testing.T) {
	t.Parallel()

	log, _ := newLogger(t)

	prov := newMockProvider("hetzner", "fsn1")
	prov.On("ListAllClusters", mock.Anything).Return(nil, errUnreachable)

	_, err := action.List(context.Background(), "", provider.NewSet(prov), log)
	require.ErrorIs(t, err, errUnreachable)
	assert.Contains(t, err.Error(), "list hetzner clusters")
}

func TestCollectOrdersRows(t *testing.T) {
	t.Parallel()

	prov := newMockProvider("docker", "local")
	prov.On("ListAllClusters", mock.Anything).Return([]string{"zzz", testClusterID}, nil)
	prov.On("ListNodes", mock.Anything, "zzz").
		Return([]provider.NodeInfo{{Name: "bibigrid-master-zzz", Role: provider.RoleMaster}}, nil)
	prov.On("ListNodes", mock.Anything, testClusterID).
		Return([]provider.NodeInfo{workerNode(0), masterNode("")}, nil)

	rows, err := action.Collect(context.Background(), "", provider.NewSet(prov))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, provider.MasterName(testClusterID), rows[0].Node.Name)
	assert.Equal(t, provider.WorkerName(testClusterID, 0), rows[1].Node.Name)
	assert.Equal(t, "zzz", rows[2].ClusterID)
}
