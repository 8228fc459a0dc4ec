package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a new MockProvider instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name mocks the infrastructure name.
func (m *MockProvider) Name() string {
	args := m.Called()

	return args.String(0)
}

// Cloud mocks the cloud label.
func (m *MockProvider) Cloud() string {
	args := m.Called()

	return args.String(0)
}

// ListAllClusters mocks listing all clusters.
func (m *MockProvider) ListAllClusters(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	result, ok := args.Get(0).([]string)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ListNodes mocks listing nodes for a cluster.
func (m *MockProvider) ListNodes(ctx context.Context, clusterID string) ([]NodeInfo, error) {
	args := m.Called(ctx, clusterID)

	result, ok := args.Get(0).([]NodeInfo)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// NodesExist mocks checking if nodes exist.
func (m *MockProvider) NodesExist(ctx context.Context, clusterID string) (bool, error) {
	args := m.Called(ctx, clusterID)

	return args.Bool(0), args.Error(1)
}

// CreateNode mocks creating a node.
func (m *MockProvider) CreateNode(ctx context.Context, spec NodeSpec) (NodeInfo, error) {
	args := m.Called(ctx, spec)

	result, _ := args.Get(0).(NodeInfo)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// DeleteNodes mocks deleting nodes for a cluster.
func (m *MockProvider) DeleteNodes(ctx context.Context, clusterID string) error {
	args := m.Called(ctx, clusterID)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Close mocks releasing the provider.
func (m *MockProvider) Close() error {
	args := m.Called()

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}
