package action

import (
	"context"
	"fmt"

	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
)

// Terminate deletes the nodes of clusterID on every provider that has some.
// It exits 1 when no provider knows the cluster.
func Terminate(ctx context.Context, clusterID string, providers *provider.Set, log *logging.Logger) (int, error) {
	found := false

	for _, prov := range providers.All() {
		exists, err := prov.NodesExist(ctx, clusterID)
		if err != nil {
			return 0, fmt.Errorf("look up cluster %s on %s: %w", clusterID, prov.Name(), err)
		}

		if !exists {
			continue
		}

		err = prov.DeleteNodes(ctx, clusterID)
		if err != nil {
			return 0, fmt.Errorf("terminate cluster %s on %s: %w", clusterID, prov.Name(), err)
		}

		found = true

		log.Infof("Terminated cluster %s on %s (%s).", clusterID, prov.Name(), prov.Cloud())
	}

	if !found {
		log.Warnf("Cluster %s not found", clusterID)

		return 1, nil
	}

	return 0, nil
}
