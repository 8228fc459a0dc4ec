package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/memory"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/google/uuid"
)

// ClusterIDLength is the number of characters of a generated cluster id.
const ClusterIDLength = 15

// MemoryWriter persists the record of the last created cluster.
type MemoryWriter interface {
	Write(record memory.Record) error
}

// CreateOptions carries everything the create action needs.
type CreateOptions struct {
	Configs   []v1alpha1.Configuration
	Providers *provider.Set
	Memory    MemoryWriter
	// ConfigPath is the configuration file the cluster was created from.
	ConfigPath string
	// Debug keeps the nodes of a failed creation for inspection.
	Debug bool
	// NewID generates the cluster id. Defaults to NewClusterID.
	NewID func() string
	Log   *logging.Logger
}

// NewClusterID returns a random lowercase hexadecimal cluster id.
func NewClusterID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:ClusterIDLength]
}

// Create starts a new cluster: the master on the first provider, then the
// workers of every configuration on the provider built from it. Nodes created
// before a failure are deleted again unless opts.Debug is set.
func Create(ctx context.Context, opts CreateOptions) (int, error) {
	providers, err := pair(opts.Configs, opts.Providers)
	if err != nil {
		return 0, err
	}

	master := opts.Configs[0].MasterInstance
	if master == nil {
		return 0, fmt.Errorf("create cluster: %w", v1alpha1.ErrMissingMasterInstance)
	}

	newID := opts.NewID
	if newID == nil {
		newID = NewClusterID
	}

	clusterID := newID()
	opts.Log.Infof("Creating cluster %s from %s", clusterID, opts.ConfigPath)

	masterNode, err := providers[0].CreateNode(ctx, provider.NodeSpec{
		ClusterID: clusterID,
		Role:      provider.RoleMaster,
		Instance:  *master,
		SSHUser:   opts.Configs[0].SSHUser,
		Network:   opts.Configs[0].Network,
		Location:  opts.Configs[0].Location,
	})
	if err != nil {
		return 0, opts.rollback(ctx, clusterID, providers, fmt.Errorf("create master: %w", err))
	}

	opts.Log.Infof("Master %s created", masterNode.Name)

	planned := PlanWorkers(clusterID, opts.Configs)
	for _, worker := range planned {
		node, err := providers[worker.Provider].CreateNode(ctx, worker.Spec)
		if err != nil {
			return 0, opts.rollback(ctx, clusterID, providers,
				fmt.Errorf("create worker %s: %w", worker.Spec.Name(), err))
		}

		opts.Log.Debugf("Worker %s created", node.Name)
	}

	if opts.Memory != nil {
		err = opts.Memory.Write(memory.Record{
			ClusterID:  clusterID,
			SSHUser:    opts.Configs[0].SSHUser,
			FloatingIP: masterNode.Address,
			ConfigPath: opts.ConfigPath,
		})
		if err != nil {
			opts.Log.Warnf("Couldn't remember cluster %s: %v", clusterID, err)
		}
	}

	opts.Log.Infof("Cluster %s with master %s and %d worker(s) created.", clusterID, masterNode.Address, len(planned))

	return 0, nil
}

// PlannedWorker is a worker node together with the index of the provider that hosts it.
type PlannedWorker struct {
	Provider int
	Spec     provider.NodeSpec
}

// PlanWorkers expands the worker instances of every configuration into
// individual nodes. Indexes are numbered across the whole cluster.
func PlanWorkers(clusterID string, configs []v1alpha1.Configuration) []PlannedWorker {
	var planned []PlannedWorker

	index := 0

	for i, cfg := range configs {
		for _, worker := range cfg.WorkerInstances {
			for range worker.Count {
				planned = append(planned, PlannedWorker{
					Provider: i,
					Spec: provider.NodeSpec{
						ClusterID: clusterID,
						Role:      provider.RoleWorker,
						Index:     index,
						Instance:  worker.Instance(),
						SSHUser:   cfg.SSHUser,
						Network:   cfg.Network,
						Location:  cfg.Location,
					},
				})
				index++
			}
		}
	}

	return planned
}

func pair(configs []v1alpha1.Configuration, set *provider.Set) ([]provider.Provider, error) {
	providers := set.All()

	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	if len(configs) != len(providers) {
		return nil, fmt.Errorf("%w: %d configurations, %d providers", ErrConfigurationCount, len(configs), len(providers))
	}

	return providers, nil
}

// rollback deletes every node of clusterID and returns cause.
func (opts CreateOptions) rollback(
	ctx context.Context,
	clusterID string,
	providers []provider.Provider,
	cause error,
) error {
	log := opts.Log

	if opts.Debug {
		log.Warnf("Creation of cluster %s failed, keeping created nodes in debug mode", clusterID)

		return cause
	}

	log.Warnf("Creation of cluster %s failed, deleting created nodes", clusterID)

	for _, prov := range providers {
		err := prov.DeleteNodes(ctx, clusterID)
		if err != nil && !errors.Is(err, provider.ErrNoNodes) {
			log.Warnf("Couldn't delete nodes of cluster %s on %s: %v", clusterID, prov.Name(), err)
		}
	}

	return cause
}
