// Package memory persists the cluster created last so that later commands can
// omit the cluster id.
//
// The record is a small YAML mapping stored under the bibigrid config dir
// (cluster_memory/.bibigrid.mem by default).
package memory
