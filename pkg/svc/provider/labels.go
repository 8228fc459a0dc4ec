package provider

import (
	"fmt"
	"strconv"
)

// Labels attached to every node bibigrid creates.
const (
	LabelOwned     = "bibigrid.owned"
	LabelClusterID = "bibigrid.cluster.id"
	LabelRole      = "bibigrid.node.role"
	LabelIndex     = "bibigrid.node.index"
)

// namePrefix starts the name of every node.
const namePrefix = "bibigrid"

// MasterName returns the name of the master node of a cluster.
func MasterName(clusterID string) string {
	return fmt.Sprintf("%s-master-%s", namePrefix, clusterID)
}

// WorkerName returns the name of the worker with the given index.
func WorkerName(clusterID string, index int) string {
	return fmt.Sprintf("%s-worker-%s-%d", namePrefix, clusterID, index)
}

// Labels returns the labels identifying the node described by spec.
func Labels(spec NodeSpec) map[string]string {
	labels := map[string]string{
		LabelOwned:     "true",
		LabelClusterID: spec.ClusterID,
		LabelRole:      spec.Role,
	}

	if spec.Role == RoleWorker {
		labels[LabelIndex] = strconv.Itoa(spec.Index)
	}

	return labels
}

// IDEPort is the port the cluster IDE listens on inside the master node.
const IDEPort = "8181"
