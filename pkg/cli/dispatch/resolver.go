package dispatch

import "github.com/bibiserv/bibigrid/pkg/utils/logging"

// MemoryReader returns the id of the last created cluster, or "" when it is unknown.
type MemoryReader interface {
	ReadLastClusterID(log *logging.Logger) string
}

// Resolved is an intent with its effective cluster id.
type Resolved struct {
	Intent

	// ClusterID is the id the action runs against.
	ClusterID string
	// Skip is set when the action needs a cluster id and none could be found.
	Skip bool
}

// Resolver applies the last-created-cluster fallback.
type Resolver struct {
	Memory MemoryReader
	Log    *logging.Logger
}

// Resolve determines the cluster id for intent. The cluster memory is only
// consulted for actions that need an id and did not get one.
func (r Resolver) Resolve(intent Intent) Resolved {
	resolved := Resolved{Intent: intent, ClusterID: intent.ClusterID()}

	if !intent.Action().NeedsClusterID() || resolved.ClusterID != "" {
		return resolved
	}

	if r.Memory != nil {
		resolved.ClusterID = r.Memory.ReadLastClusterID(r.Log)
	}

	shown := resolved.ClusterID
	if shown == "" {
		shown = "None found"
	}

	r.Log.Infof("No cid (cluster_id) specified. Defaulting to last created cluster: %s", shown)

	resolved.Skip = resolved.ClusterID == ""

	return resolved
}
