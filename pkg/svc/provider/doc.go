// Package provider defines the infrastructure providers bibigrid runs cluster
// nodes on, the registry that builds them from configuration and the Set that
// owns the opened handles for one invocation.
//
// Currently supported providers:
//   - docker: runs cluster nodes as Docker containers
//   - hetzner: runs cluster nodes as Hetzner Cloud servers
package provider
