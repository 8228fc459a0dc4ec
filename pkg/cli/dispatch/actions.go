package dispatch

import (
	"context"

	"github.com/bibiserv/bibigrid/pkg/svc/action"
)

// DefaultActions binds every action to its implementation in package action.
// memory records the cluster created by the create action.
func DefaultActions(memory action.MemoryWriter) ActionSet {
	return ActionSet{
		Version: action.Version,
		Terminate: func(ctx context.Context, req Request) (int, error) {
			return action.Terminate(ctx, req.ClusterID, req.Providers, req.Log)
		},
		Create: func(ctx context.Context, req Request) (int, error) {
			return action.Create(ctx, action.CreateOptions{
				Configs:    req.Configs,
				Providers:  req.Providers,
				Memory:     memory,
				ConfigPath: req.ConfigPath,
				Debug:      req.Debug,
				Log:        req.Log,
			})
		},
		List: func(ctx context.Context, req Request) (int, error) {
			return action.List(ctx, req.ClusterID, req.Providers, req.Log)
		},
		Check: func(ctx context.Context, req Request) (int, error) {
			return action.Check(ctx, req.Configs, req.Providers, req.Log)
		},
		Ide: func(ctx context.Context, req Request) (int, error) {
			return action.Ide(ctx, req.ClusterID, req.Providers, req.Log)
		},
		Update: func(ctx context.Context, req Request) (int, error) {
			return action.Update(ctx, action.UpdateOptions{
				ClusterID: req.ClusterID,
				Configs:   req.Configs,
				Providers: req.Providers,
				Log:       req.Log,
			})
		},
	}
}
