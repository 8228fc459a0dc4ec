package provider

import (
	"context"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
)

// Node roles.
const (
	RoleMaster = "master"
	RoleWorker = "worker"
)

// NodeInfo contains information about a node managed by a provider.
type NodeInfo struct {
	// Name is the unique identifier of the node (container name, server name).
	Name string
	// ClusterID is the id of the cluster this node belongs to.
	ClusterID string
	// Role is RoleMaster or RoleWorker.
	Role string
	// State is the provider-reported state (running, exited, off, ...).
	State string
	// Address is the address the node is reachable at, if known.
	Address string
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	ClusterID string
	Role      string
	// Index numbers workers within a cluster starting at 0. Ignored for masters.
	Index    int
	Instance v1alpha1.Instance
	SSHUser  string
	Network  string
	Location string
}

// Name returns the node name for the role and index of the node.
func (s NodeSpec) Name() string {
	if s.Role == RoleMaster {
		return MasterName(s.ClusterID)
	}

	return WorkerName(s.ClusterID, s.Index)
}

// Provider defines the interface for infrastructure providers.
type Provider interface {
	// Name returns the infrastructure name, e.g. "docker".
	Name() string

	// Cloud returns the cloud or account label from the configuration.
	Cloud() string

	// ListAllClusters returns the ids of all clusters managed by this provider.
	ListAllClusters(ctx context.Context) ([]string, error)

	// ListNodes returns all nodes for a specific cluster.
	ListNodes(ctx context.Context, clusterID string) ([]NodeInfo, error)

	// NodesExist returns true if nodes exist for the given cluster id.
	NodesExist(ctx context.Context, clusterID string) (bool, error)

	// CreateNode creates and starts a node.
	CreateNode(ctx context.Context, spec NodeSpec) (NodeInfo, error)

	// DeleteNodes removes all nodes for a cluster.
	// If no nodes exist, returns ErrNoNodes.
	DeleteNodes(ctx context.Context, clusterID string) error

	// Close releases the underlying client.
	Close() error
}
