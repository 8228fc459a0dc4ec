package action

import (
	"context"
	"fmt"
	"net"

	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
)

// IDEAddress returns the URL of the IDE served by a master at address.
func IDEAddress(address string) string {
	return "http://" + net.JoinHostPort(address, provider.IDEPort)
}

// Ide announces the IDE address of the master of clusterID. The master is
// looked up on the first provider. It exits 1 when no reachable master exists.
func Ide(ctx context.Context, clusterID string, providers *provider.Set, log *logging.Logger) (int, error) {
	first := providers.First()
	if first == nil {
		return 0, ErrNoProviders
	}

	master, err := findMaster(ctx, clusterID, first)
	if err != nil {
		return 0, err
	}

	if master == nil || master.Address == "" {
		log.Warnf("Master of cluster %s not found", clusterID)

		return 1, nil
	}

	log.Announcef("IDE of cluster %s is available at %s", clusterID, IDEAddress(master.Address))

	return 0, nil
}

func findMaster(ctx context.Context, clusterID string, prov provider.Provider) (*provider.NodeInfo, error) {
	nodes, err := prov.ListNodes(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("list nodes of cluster %s: %w", clusterID, err)
	}

	for i := range nodes {
		if nodes[i].Role == provider.RoleMaster {
			return &nodes[i], nil
		}
	}

	return nil, nil //nolint:nilnil // absence is not an error here
}
