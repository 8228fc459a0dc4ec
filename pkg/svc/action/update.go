package action

import (
	"context"
	"fmt"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
)

// UpdateOptions carries everything the update action needs.
type UpdateOptions struct {
	ClusterID string
	Configs   []v1alpha1.Configuration
	Providers *provider.Set
	Log       *logging.Logger
}

// Update creates every configured worker of an existing cluster that is not
// running yet. It exits 1 when the cluster has no master.
func Update(ctx context.Context, opts UpdateOptions) (int, error) {
	providers, err := pair(opts.Configs, opts.Providers)
	if err != nil {
		return 0, err
	}

	master, err := findMaster(ctx, opts.ClusterID, providers[0])
	if err != nil {
		return 0, err
	}

	if master == nil {
		opts.Log.Warnf("Cluster %s not found", opts.ClusterID)

		return 1, nil
	}

	existing := make([]map[string]bool, len(providers))

	for i, prov := range providers {
		nodes, err := prov.ListNodes(ctx, opts.ClusterID)
		if err != nil {
			return 0, fmt.Errorf("list nodes of cluster %s on %s: %w", opts.ClusterID, prov.Name(), err)
		}

		existing[i] = make(map[string]bool, len(nodes))
		for _, node := range nodes {
			existing[i][node.Name] = true
		}
	}

	added := 0

	for _, worker := range PlanWorkers(opts.ClusterID, opts.Configs) {
		if existing[worker.Provider][worker.Spec.Name()] {
			continue
		}

		node, err := providers[worker.Provider].CreateNode(ctx, worker.Spec)
		if err != nil {
			return 0, fmt.Errorf("create worker %s: %w", worker.Spec.Name(), err)
		}

		opts.Log.Debugf("Worker %s created", node.Name)

		added++
	}

	if added == 0 {
		opts.Log.Infof("Cluster %s is up to date.", opts.ClusterID)
	} else {
		opts.Log.Infof("Added %d worker(s) to cluster %s.", added, opts.ClusterID)
	}

	return 0, nil
}
